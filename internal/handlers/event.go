package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ekaraca/campuslink/internal/authz"
	"github.com/ekaraca/campuslink/internal/models"
	"github.com/ekaraca/campuslink/internal/mykafka"
)

type EventHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *EventHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "event_events", fmt.Sprint(event["eventID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	var events []models.Event
	if err := h.DB.Order("starts_at ASC").Find(&events).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if err := authz.Authorize(p, authz.Roles(models.RoleClub)); err != nil {
		return authz.HTTPError(err)
	}

	var req struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		StartsAt    time.Time `json:"starts_at"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title required")
	}

	event := models.Event{
		UserID:      p.ID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
	}
	if err := h.DB.Create(&event).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":    "event_created",
		"eventID": event.ID,
		"userID":  p.ID,
	})

	return c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var event models.Event
	if err := h.DB.First(&event, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	if err := authz.Authorize(authz.PrincipalFrom(c), authz.Owner(event.UserID)); err != nil {
		return authz.HTTPError(err)
	}

	var req struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		StartsAt    time.Time `json:"starts_at"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	event.Title = req.Title
	event.Description = req.Description
	event.StartsAt = req.StartsAt
	if err := h.DB.Save(&event).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":    "event_updated",
		"eventID": event.ID,
	})

	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var event models.Event
	if err := h.DB.First(&event, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	if err := authz.Authorize(authz.PrincipalFrom(c), authz.Owner(event.UserID)); err != nil {
		return authz.HTTPError(err)
	}

	if err := h.DB.Delete(&event).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":    "event_deleted",
		"eventID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
