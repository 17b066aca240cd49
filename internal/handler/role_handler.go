package handler

import (
	"go-cms-admin/internal/middleware"
	"go-cms-admin/internal/model"
	"go-cms-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RoleHandler struct {
	roleService service.RoleService
}

func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// GetRoles returns all roles with their permission sets
// GET /admin/users/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roleService.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch roles"})
	}
	return c.JSON(roles)
}

// Create adds a role
// POST /admin/users/roles
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var req service.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	role, err := h.roleService.Create(middleware.ActorFromCtx(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(role)
}

// Update edits a role
// PUT /admin/users/roles/:id
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid role ID"})
	}

	var req service.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	role, err := h.roleService.Update(middleware.ActorFromCtx(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(role)
}

// UpdateStatus enables or disables a role
// PUT /admin/users/roles/:id/status
func (h *RoleHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid role ID"})
	}

	var req struct {
		Status model.RoleStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.roleService.UpdateStatus(middleware.ActorFromCtx(c), id, req.Status); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role status updated"})
}

// ReplacePermissions assigns a permission set to a role
// PUT /admin/users/roles/:id/permissions
func (h *RoleHandler) ReplacePermissions(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid role ID"})
	}

	var req struct {
		Permissions []string `json:"permissions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	role, err := h.roleService.ReplacePermissions(middleware.ActorFromCtx(c), id, req.Permissions)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(role)
}

// Delete soft-deletes roles
// DELETE /admin/users/roles
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.roleService.Delete(middleware.ActorFromCtx(c), req.IDs); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Roles deleted"})
}
