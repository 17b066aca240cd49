package handler

import (
	"go-cms-admin/internal/middleware"
	"go-cms-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PermissionHandler struct {
	permissionService service.PermissionService
}

func NewPermissionHandler(permissionService service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// GetTree returns the compiled catalog forest
// GET /admin/system/permission?type=menu
func (h *PermissionHandler) GetTree(c *fiber.Ctx) error {
	menuOnly := c.Query("type") == "menu"
	tree, err := h.permissionService.Tree(menuOnly)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch permission tree"})
	}
	return c.JSON(fiber.Map{"list": tree})
}

// Create adds a catalog node
// POST /admin/system/permission
func (h *PermissionHandler) Create(c *fiber.Ctx) error {
	var req service.PermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	permission, err := h.permissionService.Create(middleware.ActorFromCtx(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(permission)
}

// Update edits a catalog node
// PUT /admin/system/permission/:id
func (h *PermissionHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid permission ID"})
	}

	var req service.PermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	permission, err := h.permissionService.Update(middleware.ActorFromCtx(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(permission)
}

// Delete soft-deletes catalog nodes
// DELETE /admin/system/permission
func (h *PermissionHandler) Delete(c *fiber.Ctx) error {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.permissionService.Delete(middleware.ActorFromCtx(c), req.IDs); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Permissions deleted"})
}
