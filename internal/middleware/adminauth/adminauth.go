package adminauth

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ekaraca/campuslink/internal/admintoken"
	"github.com/ekaraca/campuslink/internal/authz"
)

const CookieName = "adminToken"

type Config struct {
	Prefix    string
	LoginPath string
}

func DefaultConfig() Config {
	return Config{
		Prefix:    "/admin",
		LoginPath: "/admin/login",
	}
}

// Gate intercepts every request under the admin prefix and requires a valid
// admin credential cookie. A missing cookie and a forged or expired one get
// the same answer: a redirect to the login page.
type Gate struct {
	Tokens *admintoken.Service
	Cfg    Config
}

func NewGate(tokens *admintoken.Service, cfg Config) *Gate {
	def := DefaultConfig()
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = def.LoginPath
	}
	return &Gate{Tokens: tokens, Cfg: cfg}
}

func (g *Gate) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		if !strings.HasPrefix(path, g.Cfg.Prefix) || path == g.Cfg.LoginPath {
			return next(c)
		}

		cookie, err := c.Cookie(CookieName)
		if err != nil {
			return c.Redirect(http.StatusFound, g.Cfg.LoginPath)
		}

		username, err := g.Tokens.Verify(cookie.Value)
		if err != nil {
			clearCookie(c)
			return c.Redirect(http.StatusFound, g.Cfg.LoginPath)
		}

		c.Set(authz.ContextKey, authz.AdminPrincipal(username))
		return next(c)
	}
}

func clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-1 * time.Hour),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
