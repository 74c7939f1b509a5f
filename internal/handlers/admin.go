package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ekaraca/campuslink/internal/admintoken"
	"github.com/ekaraca/campuslink/internal/authz"
	"github.com/ekaraca/campuslink/internal/hash"
	"github.com/ekaraca/campuslink/internal/middleware/adminauth"
	"github.com/ekaraca/campuslink/internal/models"
	"github.com/ekaraca/campuslink/internal/mykafka"
)

type AdminHandler struct {
	DB           *gorm.DB
	Tokens       *admintoken.Service
	Username     string
	PasswordHash string
	LoginPath    string
	Producer     *mykafka.Producer
}

func (h *AdminHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "admin_events", fmt.Sprint(event["type"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AdminHandler) loginPath() string {
	if h.LoginPath != "" {
		return h.LoginPath
	}
	return adminauth.DefaultConfig().LoginPath
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if req.Username != h.Username || !hash.CheckPassword(h.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, exp, err := h.Tokens.Issue(req.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	c.SetCookie(CreateCookie(adminauth.CookieName, token, "/", exp))

	h.publish(c, map[string]interface{}{
		"type":     "admin_logged_in",
		"username": req.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{"expires_at": exp})
}

// Dashboard re-derives the admin principal itself instead of trusting the
// gate alone. If the gate were ever bypassed the page still redirects.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if err := authz.Authorize(p, authz.AdminOnly()); err != nil {
		return c.Redirect(http.StatusFound, h.loginPath())
	}

	var users, reports, tickets int64
	if err := h.DB.Model(&models.User{}).Count(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if err := h.DB.Model(&models.Report{}).Where("resolved = ?", false).Count(&reports).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if err := h.DB.Model(&models.SupportTicket{}).Where("status = ?", "open").Count(&tickets).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"admin":        p.Email,
		"users":        users,
		"open_reports": reports,
		"open_tickets": tickets,
	})
}

func (h *AdminHandler) BanUser(c echo.Context) error {
	if err := authz.Authorize(authz.PrincipalFrom(c), authz.AdminOnly()); err != nil {
		return authz.HTTPError(err)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var req struct {
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	user.IsBanned = true
	user.BanExpiresAt = req.ExpiresAt
	if err := h.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":   "user_banned",
		"userID": user.ID,
	})

	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) UnbanUser(c echo.Context) error {
	if err := authz.Authorize(authz.PrincipalFrom(c), authz.AdminOnly()); err != nil {
		return authz.HTTPError(err)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	user.IsBanned = false
	user.BanExpiresAt = nil
	if err := h.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":   "user_unbanned",
		"userID": user.ID,
	})

	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) SetRole(c echo.Context) error {
	if err := authz.Authorize(authz.PrincipalFrom(c), authz.AdminOnly()); err != nil {
		return authz.HTTPError(err)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	switch req.Role {
	case models.RoleStudent, models.RoleClub, models.RoleAdmin:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	user.Role = req.Role
	if err := h.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":   "role_changed",
		"userID": user.ID,
		"role":   user.Role,
	})

	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) ResolveReport(c echo.Context) error {
	if err := authz.Authorize(authz.PrincipalFrom(c), authz.AdminOnly()); err != nil {
		return authz.HTTPError(err)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var report models.Report
	if err := h.DB.First(&report, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	if report.Resolved {
		return authz.HTTPError(authz.ErrInvalidOperation)
	}

	report.Resolved = true
	if err := h.DB.Save(&report).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":     "report_resolved",
		"reportID": report.ID,
	})

	return c.JSON(http.StatusOK, report)
}

func (h *AdminHandler) resolveRoleRequest(c echo.Context, approve bool) error {
	if err := authz.Authorize(authz.PrincipalFrom(c), authz.AdminOnly()); err != nil {
		return authz.HTTPError(err)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var request models.RoleRequest
	if err := h.DB.First(&request, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "role request not found")
	}
	if request.Status != models.RequestPending {
		return authz.HTTPError(authz.ErrInvalidOperation)
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if approve {
			request.Status = models.RequestApproved
			if err := tx.Model(&models.User{}).Where("id = ?", request.UserID).
				Update("role", models.RoleClub).Error; err != nil {
				return err
			}
		} else {
			request.Status = models.RequestRejected
		}
		return tx.Save(&request).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":      "role_request_resolved",
		"requestID": request.ID,
		"status":    request.Status,
	})

	return c.JSON(http.StatusOK, request)
}

func (h *AdminHandler) ApproveRoleRequest(c echo.Context) error {
	return h.resolveRoleRequest(c, true)
}

func (h *AdminHandler) RejectRoleRequest(c echo.Context) error {
	return h.resolveRoleRequest(c, false)
}

func (h *AdminHandler) ResolveTicket(c echo.Context) error {
	if err := authz.Authorize(authz.PrincipalFrom(c), authz.AdminOnly()); err != nil {
		return authz.HTTPError(err)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var ticket models.SupportTicket
	if err := h.DB.First(&ticket, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "ticket not found")
	}

	ticket.Status = "resolved"
	if err := h.DB.Save(&ticket).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":     "ticket_resolved",
		"ticketID": ticket.ID,
	})

	return c.JSON(http.StatusOK, ticket)
}
