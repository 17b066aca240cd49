package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-cms-admin/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatedApp() *fiber.App {
	app := fiber.New()
	app.Use(Gate())
	app.Get("/auth/login", func(c *fiber.Ctx) error { return c.SendString("login") })
	app.Get("/auth/me", func(c *fiber.Ctx) error { return c.SendString("me") })
	app.Get("/admin/contents/list", func(c *fiber.Ctx) error { return c.SendString("list") })
	app.Get("/admin/contents/preview/:id", func(c *fiber.Ctx) error { return c.SendString("preview") })
	app.Get("/admin/system/logs", func(c *fiber.Ctx) error { return c.SendString("logs") })
	app.Post("/admin/contents/list/:id/review", RequirePermission("content:review"), func(c *fiber.Ctx) error {
		return c.SendString("reviewed")
	})
	return app
}

func issueToken(t *testing.T, perms, paths []string) string {
	t.Helper()
	token, err := jwt.GenerateToken(uuid.New(), "alice", "editor", perms, paths, jwt.DefaultTTL)
	require.NoError(t, err)
	return token
}

func TestGateBypassesLogin(t *testing.T) {
	app := gatedApp()

	req := httptest.NewRequest("GET", "/auth/login", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestGateRedirectsWithoutCredential(t *testing.T) {
	app := gatedApp()

	req := httptest.NewRequest("GET", "/admin/contents/list", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
}

func TestGateRedirectsOnInvalidCredential(t *testing.T) {
	app := gatedApp()

	req := httptest.NewRequest("GET", "/admin/contents/list", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

func TestGateAllowsMatchingPrefix(t *testing.T) {
	app := gatedApp()
	token := issueToken(t, nil, []string{"/admin/contents/preview"})

	// one allow-list entry covers every id under the prefix
	req := httptest.NewRequest("GET", "/admin/contents/preview/abc123", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestGateForbidsUnmatchedAdminPath(t *testing.T) {
	app := gatedApp()
	token := issueToken(t, nil, []string{"/admin/contents/list"})

	req := httptest.NewRequest("GET", "/admin/system/logs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	// authenticated but unauthorized is forbidden, never a redirect
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGateLeavesNonAdminPathsToAuthOnly(t *testing.T) {
	app := gatedApp()
	token := issueToken(t, nil, nil)

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRequirePermission(t *testing.T) {
	app := gatedApp()

	granted := issueToken(t, []string{"content:review"}, []string{"/admin/contents/list"})
	req := httptest.NewRequest("POST", "/admin/contents/list/xyz/review", nil)
	req.Header.Set("Authorization", "Bearer "+granted)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	denied := issueToken(t, []string{"content:create"}, []string{"/admin/contents/list"})
	req = httptest.NewRequest("POST", "/admin/contents/list/xyz/review", nil)
	req.Header.Set("Authorization", "Bearer "+denied)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestExtractTokenPrefersCookie(t *testing.T) {
	app := fiber.New()
	app.Use(Gate())
	app.Get("/auth/me", func(c *fiber.Ctx) error {
		return c.SendString(ActorFromCtx(c).Username)
	})

	token := issueToken(t, nil, nil)
	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
