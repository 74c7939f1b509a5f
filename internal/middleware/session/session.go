package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ekaraca/campuslink/internal/authz"
	"github.com/ekaraca/campuslink/internal/models"
)

const (
	CookieName = "sessionToken"
	TTL        = 7 * 24 * time.Hour
)

func Sign(userID uint, secret []byte) (string, time.Time, error) {
	exp := time.Now().Add(TTL)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("could not sign session token: %w", err)
	}
	return signed, exp, nil
}

// Middleware resolves the primary user session. The user row is re-fetched
// from the database on every request, so role changes and bans take effect
// immediately; nothing is cached between requests.
type Middleware struct {
	DB     *gorm.DB
	Secret []byte
	Now    func() time.Time
}

func (m *Middleware) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Middleware) resolve(c echo.Context) (*authz.Principal, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, nil
	}

	var user models.User
	if err := m.DB.First(&user, uint(sub)).Error; err != nil {
		return nil, nil
	}

	// sign-in does not check bans; this is where they bite
	if user.Banned(m.now()) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "account is banned")
	}

	return authz.FromUser(&user), nil
}

// Require rejects anonymous requests.
func (m *Middleware) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := m.resolve(c)
		if err != nil {
			return err
		}
		if p == nil {
			return authz.HTTPError(authz.ErrUnauthorized)
		}
		c.Set(authz.ContextKey, p)
		return next(c)
	}
}

// Optional lets anonymous requests through without a principal. Banned
// users are still rejected.
func (m *Middleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := m.resolve(c)
		if err != nil {
			return err
		}
		if p != nil {
			c.Set(authz.ContextKey, p)
		}
		return next(c)
	}
}
