package gate_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apartment-bureau/landing-service/internal/gate"
	apperrors "github.com/apartment-bureau/landing-service/pkg/util"
)

type gateFixture struct {
	app      *fiber.App
	tokens   *gate.TokenManager
	sessions *gate.MemorySessionStore
}

func newGateFixture(t *testing.T, secret string) *gateFixture {
	t.Helper()

	sessions := gate.NewMemorySessionStore(time.Hour)
	middleware := gate.NewMiddleware(gate.MiddlewareOptions{
		Secret:     secret,
		PathPrefix: "/admin",
		CookieName: "bq_session",
		SessionTTL: time.Hour,
	}, sessions, zap.NewNop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Code})
		},
	})
	app.Use(middleware.Handle)
	app.Get("/admin/", func(c *fiber.Ctx) error {
		return c.SendString("console at " + c.Path())
	})
	app.Get("/admin/users", func(c *fiber.Ctx) error {
		return c.SendString("users at " + c.Path())
	})
	app.Get("/admin/html", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(`<a href="/admin/users">users</a>`)
	})
	app.Get("/public", func(c *fiber.Ctx) error {
		return c.SendString("public")
	})

	return &gateFixture{app: app, tokens: gate.NewTokenManager(secret), sessions: sessions}
}

func (f *gateFixture) get(t *testing.T, path, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "bq_session", Value: cookie})
	}
	resp, err := f.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "bq_session" {
			return c.Value
		}
	}
	return ""
}

func TestGateRewritesTokenPath(t *testing.T) {
	f := newGateFixture(t, testSecret)
	token, _, err := f.tokens.Issue(time.Hour)
	require.NoError(t, err)

	resp := f.get(t, "/admin/"+token+"/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "console at /admin/", body(t, resp))
	assert.NotEmpty(t, sessionCookie(resp), "verified token must be cached in a session")
}

func TestGateSessionFallbackSkipsURLToken(t *testing.T) {
	f := newGateFixture(t, testSecret)
	token, _, err := f.tokens.Issue(time.Hour)
	require.NoError(t, err)

	first := f.get(t, "/admin/"+token+"/", "")
	require.Equal(t, http.StatusOK, first.StatusCode)
	sid := sessionCookie(first)
	require.NotEmpty(t, sid)

	second := f.get(t, "/admin/users", sid)
	require.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, "users at /admin/users", body(t, second))
}

func TestGateNoTokenNoSessionIsNotFound(t *testing.T) {
	f := newGateFixture(t, testSecret)

	resp := f.get(t, "/admin/", "")
	// 404, never 403: the gate must be indistinguishable from a missing route.
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGateRejectsInvalidToken(t *testing.T) {
	f := newGateFixture(t, testSecret)

	resp := f.get(t, "/admin/not-a-real-token/", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGateInvalidatesStaleSessionToken(t *testing.T) {
	f := newGateFixture(t, testSecret)
	expired := signClaims(t, testSecret, gate.TokenType, time.Now().Add(-time.Minute))

	sid := "stale-session"
	require.NoError(t, f.sessions.Set(context.Background(), sid, expired))

	resp := f.get(t, "/admin/", sid)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err := f.sessions.Get(context.Background(), sid)
	assert.ErrorIs(t, err, gate.ErrNoSessionToken)
}

func TestGateIgnoresOtherPaths(t *testing.T) {
	f := newGateFixture(t, testSecret)

	resp := f.get(t, "/public", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public", body(t, resp))
}

func TestGateDisabledWithoutSecret(t *testing.T) {
	f := newGateFixture(t, "")

	resp := f.get(t, "/admin/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGateRewritesOutgoingAdminLinks(t *testing.T) {
	f := newGateFixture(t, testSecret)
	token, _, err := f.tokens.Issue(time.Hour)
	require.NoError(t, err)

	resp := f.get(t, "/admin/"+token+"/html", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `href="/admin/`+token+`/users"`)
}
