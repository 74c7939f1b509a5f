package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ekaraca/campuslink/internal/authz"
	"github.com/ekaraca/campuslink/internal/models"
)

type ReportHandler struct {
	DB *gorm.DB
}

func (h *ReportHandler) CreateReport(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if p == nil {
		return authz.HTTPError(authz.ErrUnauthorized)
	}

	var req struct {
		TargetUserID uint   `json:"target_user_id"`
		Reason       string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Reason == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reason required")
	}
	if req.TargetUserID == p.ID {
		return authz.HTTPError(authz.ErrInvalidOperation)
	}

	var target models.User
	if err := h.DB.First(&target, req.TargetUserID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	report := models.Report{
		ReporterID:   p.ID,
		TargetUserID: req.TargetUserID,
		Reason:       req.Reason,
	}
	if err := h.DB.Create(&report).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusCreated, report)
}

// CreateRoleRequest asks an admin for the club role. Only one pending
// request per user may exist at a time.
func (h *ReportHandler) CreateRoleRequest(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if p == nil {
		return authz.HTTPError(authz.ErrUnauthorized)
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var pending int64
	if err := h.DB.Model(&models.RoleRequest{}).
		Where("user_id = ? AND status = ?", p.ID, models.RequestPending).
		Count(&pending).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if pending > 0 {
		return authz.HTTPError(authz.ErrInvalidOperation)
	}

	request := models.RoleRequest{
		UserID:  p.ID,
		Message: req.Message,
		Status:  models.RequestPending,
	}
	if err := h.DB.Create(&request).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusCreated, request)
}

func (h *ReportHandler) MyRoleRequests(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if p == nil {
		return authz.HTTPError(authz.ErrUnauthorized)
	}

	var requests []models.RoleRequest
	if err := h.DB.Where("user_id = ?", p.ID).Find(&requests).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, requests)
}
