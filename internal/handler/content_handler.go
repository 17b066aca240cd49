package handler

import (
	"go-cms-admin/internal/middleware"
	"go-cms-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ContentHandler struct {
	contentService service.ContentService
}

func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// List returns contents visible to the caller's capability tier
// GET /admin/contents/list
func (h *ContentHandler) List(c *fiber.Ctx) error {
	params := service.ContentListParams{
		Title:    c.Query("title"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 10),
	}

	contents, total, err := h.contentService.List(middleware.ActorFromCtx(c), &params)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"list": contents, "total": total})
}

// Preview returns one content item
// GET /admin/contents/preview/:id
func (h *ContentHandler) Preview(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid content ID"})
	}

	content, err := h.contentService.Detail(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(content)
}

// Create adds a content item
// POST /admin/contents/list
func (h *ContentHandler) Create(c *fiber.Ctx) error {
	var req service.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	content, err := h.contentService.Create(middleware.ActorFromCtx(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(content)
}

// Update edits a content item
// PUT /admin/contents/list/:id
func (h *ContentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid content ID"})
	}

	var req service.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	content, err := h.contentService.Update(middleware.ActorFromCtx(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(content)
}

// Delete soft-deletes content items
// DELETE /admin/contents/list
func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.contentService.Delete(middleware.ActorFromCtx(c), req.IDs); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Contents deleted"})
}

// Submit moves a draft into review
// POST /admin/contents/list/:id/submit
func (h *ContentHandler) Submit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid content ID"})
	}

	if err := h.contentService.SubmitForReview(middleware.ActorFromCtx(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Content submitted for review"})
}

// Review approves or rejects a pending item
// POST /admin/contents/list/:id/review
func (h *ContentHandler) Review(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid content ID"})
	}

	var req service.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.ContentID = id

	if err := h.contentService.Review(middleware.ActorFromCtx(c), &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Content reviewed"})
}

// Archive retires a published item
// POST /admin/contents/list/:id/archive
func (h *ContentHandler) Archive(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid content ID"})
	}

	if err := h.contentService.Archive(middleware.ActorFromCtx(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Content archived"})
}

// History returns the review history of one item, newest first
// GET /admin/contents/list/:id/history
func (h *ContentHandler) History(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid content ID"})
	}

	records, err := h.contentService.History(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"list": records})
}
