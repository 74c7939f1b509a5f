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
	"github.com/ekaraca/campuslink/internal/social"
)

type ProfileHandler struct {
	DB       *gorm.DB
	Social   *social.Service
	Producer *mykafka.Producer
}

func (h *ProfileHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "social_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// GetProfile returns the full profile when the viewer may see it, and only
// the public shell (id, username, privacy flag, follow state) when not.
// Existence is not hidden; content is.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var target models.User
	if err := h.DB.First(&target, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	viewer := authz.PrincipalFrom(c)

	state := social.Unfollowed
	if viewer != nil && !viewer.Admin && viewer.ID != target.ID {
		state, err = h.Social.FollowState(viewer.ID, target.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
	}

	visible, err := h.Social.CanView(viewer, &target)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	if !visible {
		return c.JSON(http.StatusOK, echo.Map{
			"id":           target.ID,
			"username":     target.Username,
			"is_private":   target.IsPrivate,
			"follow_state": state,
		})
	}

	var posts []models.Post
	if err := h.DB.Where("author_id = ?", target.ID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":         target,
		"posts":        posts,
		"follow_state": state,
	})
}

func (h *ProfileHandler) ToggleFollow(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if p == nil {
		return authz.HTTPError(authz.ErrUnauthorized)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	state, err := h.Social.ToggleFollow(p.ID, uint(id))
	if err != nil {
		return authz.HTTPError(err)
	}

	h.publish(c, map[string]interface{}{
		"type":     "follow_toggled",
		"userID":   p.ID,
		"targetID": id,
		"state":    state,
	})

	return c.JSON(http.StatusOK, echo.Map{"state": state})
}

func (h *ProfileHandler) AcceptFollowRequest(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if p == nil {
		return authz.HTTPError(authz.ErrUnauthorized)
	}

	senderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if err := h.Social.AcceptRequest(p.ID, uint(senderID)); err != nil {
		return authz.HTTPError(err)
	}

	h.publish(c, map[string]interface{}{
		"type":     "follow_request_accepted",
		"userID":   p.ID,
		"senderID": senderID,
	})

	return c.JSON(http.StatusOK, echo.Map{"state": social.Following})
}

func (h *ProfileHandler) RejectFollowRequest(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if p == nil {
		return authz.HTTPError(authz.ErrUnauthorized)
	}

	senderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if err := h.Social.RejectRequest(p.ID, uint(senderID)); err != nil {
		return authz.HTTPError(err)
	}

	h.publish(c, map[string]interface{}{
		"type":     "follow_request_rejected",
		"userID":   p.ID,
		"senderID": senderID,
	})

	return c.JSON(http.StatusOK, echo.Map{"state": social.Unfollowed})
}

func (h *ProfileHandler) Followers(c echo.Context) error {
	return h.listRelations(c, h.Social.Followers)
}

func (h *ProfileHandler) Following(c echo.Context) error {
	return h.listRelations(c, h.Social.Following)
}

func (h *ProfileHandler) listRelations(c echo.Context, list func(uint) ([]models.User, error)) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var target models.User
	if err := h.DB.First(&target, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	visible, err := h.Social.CanView(authz.PrincipalFrom(c), &target)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if !visible {
		return authz.HTTPError(authz.ErrForbidden)
	}

	users, err := list(target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, users)
}
