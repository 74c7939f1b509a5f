package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ekaraca/campuslink/internal/authz"
	"github.com/ekaraca/campuslink/internal/models"
)

type TicketHandler struct {
	DB *gorm.DB
}

func (h *TicketHandler) CreateTicket(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if p == nil {
		return authz.HTTPError(authz.ErrUnauthorized)
	}

	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Subject == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "subject required")
	}

	ticket := models.SupportTicket{
		UserID:  p.ID,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  "open",
	}
	if err := h.DB.Create(&ticket).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) MyTickets(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if p == nil {
		return authz.HTTPError(authz.ErrUnauthorized)
	}

	var tickets []models.SupportTicket
	if err := h.DB.Where("user_id = ?", p.ID).Find(&tickets).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, tickets)
}
