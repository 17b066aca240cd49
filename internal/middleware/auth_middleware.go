package middleware

import (
	"strings"

	"go-cms-admin/internal/audit"
	"go-cms-admin/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Routes exempt from the gate, checked before any credential work.
var bypassPrefixes = []string{
	"/auth/login",
	"/static",
	"/favicon.ico",
	"/ws",
}

const loginPath = "/auth/login"

// Gate authenticates every request and authorizes the /admin surface by
// prefix-matching the request path against the credential's allowed paths.
// Missing or invalid credentials redirect to login (unauthenticated); a valid
// credential without a matching prefix gets a distinct forbidden outcome.
func Gate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, prefix := range bypassPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		token := extractToken(c)
		if token == "" {
			return c.Redirect(loginPath, fiber.StatusFound)
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			return c.Redirect(loginPath, fiber.StatusFound)
		}

		// The allow-list gates the admin surface. One entry such as
		// /admin/contents/preview authorizes /admin/contents/preview/{id}
		// for any id.
		if strings.HasPrefix(path, "/admin") {
			allowed := false
			for _, p := range claims.AllowedPaths {
				if p != "" && strings.HasPrefix(path, p) {
					allowed = true
					break
				}
			}
			if !allowed {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
			}
		}

		c.Locals("actor", audit.Actor{
			UserID:      claims.UserID,
			Username:    claims.Username,
			Role:        claims.Role,
			Permissions: claims.Permissions,
			IP:          ClientIP(c),
		})

		return c.Next()
	}
}

// RequirePermission checks a button-level capability from the credential's
// permission snapshot.
func RequirePermission(code string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals("actor").(audit.Actor)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "no identity found"})
		}
		if !actor.Has(code) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden: requires '" + code + "' permission",
			})
		}
		return c.Next()
	}
}

// ActorFromCtx returns the identity the gate placed in locals.
func ActorFromCtx(c *fiber.Ctx) audit.Actor {
	if actor, ok := c.Locals("actor").(audit.Actor); ok {
		return actor
	}
	return audit.Actor{}
}

// ClientIP prefers the first forwarded-for entry over the socket address.
func ClientIP(c *fiber.Ctx) string {
	return audit.NormalizeIP(c.Get("X-Forwarded-For"), c.IP())
}

func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies("token"); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
