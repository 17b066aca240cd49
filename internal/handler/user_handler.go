package handler

import (
	"go-cms-admin/internal/middleware"
	"go-cms-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsers returns all users
// GET /admin/users/list
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}
	return c.JSON(users)
}

// GetUser returns one user
// GET /admin/users/list/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// CreateUser adds a user with its role's permission snapshot
// POST /admin/users/list
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.userService.Create(middleware.ActorFromCtx(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(user.ToResponse())
}

// UpdateUser edits a user
// PUT /admin/users/list/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.userService.Update(middleware.ActorFromCtx(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user.ToResponse())
}

// UpdatePassword resets a user's password
// PUT /admin/users/list/:id/password
func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.userService.UpdatePassword(middleware.ActorFromCtx(c), id, req.Password); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}

// DeleteUsers soft-deletes users
// DELETE /admin/users/list
func (h *UserHandler) DeleteUsers(c *fiber.Ctx) error {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.userService.Delete(middleware.ActorFromCtx(c), req.IDs); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Users deleted"})
}
