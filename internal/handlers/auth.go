package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ekaraca/campuslink/internal/authz"
	"github.com/ekaraca/campuslink/internal/middleware/session"
	"github.com/ekaraca/campuslink/internal/models"
	"github.com/ekaraca/campuslink/internal/mykafka"
)

type AuthHandler struct {
	DB         *gorm.DB
	JWTSecret  []byte
	Producer   *mykafka.Producer
	Search     *SearchHandler
	TestEmails []string
}

func CreateCookie(name string, value string, path string, exp_time time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp_time,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}

	return cookie
}

// SignIn is the identity-provider callback: the verified email arrives
// here, the allow-list policy decides, and on ALLOW the account is created
// or resumed and a session cookie minted. Bans are not checked here; the
// session middleware enforces them on every request.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email required")
	}

	lookup := func(email string) (bool, error) {
		var count int64
		if err := h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}

	decision, err := authz.SignInDecision(req.Email, lookup, h.TestEmails)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if decision != authz.Allow {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}

	var user models.User
	err = h.DB.Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		username := req.Username
		if username == "" {
			username = strings.SplitN(req.Email, "@", 2)[0]
		}
		user = models.User{
			Email:    req.Email,
			Username: username,
			Role:     models.RoleStudent,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
		if h.Search != nil {
			if err := h.Search.IndexUser(c.Request().Context(), &user); err != nil {
				c.Logger().Errorf("ES index error: %v", err)
			}
		}
	} else if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	token, exp, err := session.Sign(user.ID, h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	c.SetCookie(CreateCookie(session.CookieName, token, "/", exp))

	event := map[string]interface{}{
		"type":   "user_signed_in",
		"userID": user.ID,
		"email":  user.Email,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(
		ctx,
		"user_events",
		fmt.Sprint(user.ID),
		event,
	); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) SignOut(c echo.Context) error {
	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(CreateCookie(session.CookieName, "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{"message": "signed out"})
}
