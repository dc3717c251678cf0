package gate

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/apartment-bureau/landing-service/pkg/util"
)

const (
	localGateToken   = "gate_token"
	localGateSession = "gate_session_id"
)

// Middleware hides the admin console behind an unguessable URL. Access is
// granted only via /<prefix>/<token>/...; once a token is verified it is
// cached for the browser session and stripped from the path so downstream
// routing sees the canonical admin paths.
type Middleware struct {
	tokens     *TokenManager
	sessions   SessionStore
	logger     *zap.Logger
	rewriter   *LinkRewriter
	prefix     string
	cookieName string
	sessionTTL time.Duration
	enabled    bool
}

// MiddlewareOptions bundle gate middleware construction parameters.
type MiddlewareOptions struct {
	Secret     string
	PathPrefix string
	CookieName string
	SessionTTL time.Duration
}

// NewMiddleware constructs the gate. An empty secret disables the gate
// entirely; the caller is expected to log a warning in that case.
func NewMiddleware(opts MiddlewareOptions, sessions SessionStore, logger *zap.Logger) *Middleware {
	prefix := opts.PathPrefix
	if prefix == "" {
		prefix = "/admin"
	}
	prefix = "/" + strings.Trim(prefix, "/")

	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = "bq_session"
	}

	sessionTTL := opts.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 365 * 24 * time.Hour
	}

	return &Middleware{
		tokens:     NewTokenManager(opts.Secret),
		sessions:   sessions,
		logger:     logger,
		rewriter:   NewLinkRewriter(prefix),
		prefix:     prefix,
		cookieName: cookieName,
		sessionTTL: sessionTTL,
		enabled:    opts.Secret != "",
	}
}

// Enabled reports whether a gate secret is configured.
func (m *Middleware) Enabled() bool {
	return m.enabled
}

// Handle intercepts requests under the admin prefix. Every failure is folded
// into a not-found outcome so the gate is indistinguishable from a missing
// route.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}

	path := c.Path()
	if path != m.prefix && !strings.HasPrefix(path, m.prefix+"/") {
		return c.Next()
	}

	ctx := c.Context()
	sessionID := c.Cookies(m.cookieName)

	// Previously verified token in the session covers form posts and AJAX
	// calls that do not re-include the token in the URL.
	if sessionID != "" {
		cached, err := m.sessions.Get(ctx, sessionID)
		if err == nil {
			if _, verr := m.tokens.Verify(cached); verr == nil {
				return m.pass(c, sessionID, cached)
			}
			if ierr := m.sessions.Invalidate(ctx, sessionID); ierr != nil {
				m.logger.Warn("failed to invalidate session token", zap.Error(ierr))
			}
		} else if err != ErrNoSessionToken {
			m.logger.Warn("session store lookup failed", zap.Error(err))
		}
	}

	segments := splitPath(strings.TrimPrefix(path, m.prefix))
	if len(segments) == 0 {
		return apperrors.NewNotFound("page", nil)
	}

	candidate := segments[0]
	if _, err := m.tokens.Verify(candidate); err != nil {
		m.logger.Debug("admin token rejected", zap.Error(err))
		if sessionID != "" {
			_ = m.sessions.Invalidate(ctx, sessionID)
		}
		return apperrors.NewNotFound("page", nil)
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     m.cookieName,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   int(m.sessionTTL.Seconds()),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	if err := m.sessions.Set(ctx, sessionID, candidate); err != nil {
		m.logger.Warn("failed to cache admin token in session", zap.Error(err))
	}

	// Strip the token segment so downstream routing sees the canonical path.
	rest := strings.Join(segments[1:], "/")
	newPath := m.prefix + "/"
	if rest != "" {
		newPath += rest
		if strings.HasSuffix(path, "/") {
			newPath += "/"
		}
	}
	c.Path(newPath)

	return m.pass(c, sessionID, candidate)
}

// pass runs the downstream chain for a gated request, then re-inserts the
// token into admin links of the outgoing response.
func (m *Middleware) pass(c *fiber.Ctx, sessionID, token string) error {
	c.Locals(localGateToken, token)
	c.Locals(localGateSession, sessionID)

	err := c.Next()

	m.rewriter.RewriteResponse(c, token)
	return err
}

// TokenFromContext returns the verified admin token for the current request.
func TokenFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(localGateToken)
	if val == nil {
		return "", false
	}
	token, ok := val.(string)
	return token, ok && token != ""
}

func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
