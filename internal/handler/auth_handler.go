package handler

import (
	"os"
	"time"

	"go-cms-admin/internal/middleware"
	"go-cms-admin/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user authentication
// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	response, err := h.authService.Login(&req, middleware.ClientIP(c))
	if err != nil {
		return fail(c, err)
	}

	c.Cookie(credentialCookie(response.Token, time.Duration(response.ExpiresIn)*time.Second))
	return c.JSON(response)
}

// Logout clears the credential cookie
// POST /auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	if err := h.authService.Logout(actor); err != nil {
		return fail(c, err)
	}

	cookie := credentialCookie("", 0)
	cookie.Expires = time.Unix(0, 0)
	c.Cookie(cookie)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me returns the authenticated identity, read from the verified credential
// only. Nothing here touches the database.
// GET /auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	return c.JSON(fiber.Map{
		"user_id":     actor.UserID,
		"username":    actor.Username,
		"role":        actor.Role,
		"permissions": actor.Permissions,
	})
}

func credentialCookie(token string, maxAge time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     "token",
		Value:    token,
		HTTPOnly: true,
		Secure:   os.Getenv("APP_ENV") == "production",
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   int(maxAge / time.Second),
		Path:     "/",
	}
}
