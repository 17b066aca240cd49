package handler

import (
	"time"

	"go-cms-admin/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type LogHandler struct {
	auditLogRepo repository.AuditLogRepository
}

func NewLogHandler(auditLogRepo repository.AuditLogRepository) *LogHandler {
	return &LogHandler{auditLogRepo: auditLogRepo}
}

// GetLogs lists audit entries, newest first
// GET /admin/system/logs
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	q := repository.AuditLogQuery{
		Module:   c.Query("module"),
		Operator: c.Query("operator"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 10),
	}

	if start := c.Query("start_time"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid start_time"})
		}
		q.StartTime = &t
	}
	if end := c.Query("end_time"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid end_time"})
		}
		q.EndTime = &t
	}

	entries, total, err := h.auditLogRepo.List(q)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch logs"})
	}
	return c.JSON(fiber.Map{"list": entries, "total": total})
}
