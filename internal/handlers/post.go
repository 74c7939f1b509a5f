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
	"github.com/ekaraca/campuslink/internal/util"
)

type PostHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *PostHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "post_events", fmt.Sprint(event["postID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *PostHandler) CreatePost(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if p == nil {
		return authz.HTTPError(authz.ErrUnauthorized)
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "body required")
	}

	post := models.Post{AuthorID: p.ID, Body: req.Body}
	if err := h.DB.Create(&post).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":   "post_created",
		"postID": post.ID,
		"userID": p.ID,
	})

	return c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var post models.Post
	if err := h.DB.First(&post, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}

	if err := authz.Authorize(authz.PrincipalFrom(c), authz.Owner(post.AuthorID)); err != nil {
		return authz.HTTPError(err)
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	post.Body = req.Body
	if err := h.DB.Save(&post).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":   "post_updated",
		"postID": post.ID,
	})

	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var post models.Post
	if err := h.DB.First(&post, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}

	if err := authz.Authorize(authz.PrincipalFrom(c), authz.Owner(post.AuthorID)); err != nil {
		return authz.HTTPError(err)
	}

	if err := h.DB.Delete(&post).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":   "post_deleted",
		"postID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

// GetFeed lists posts the viewer may see: their own, public authors, and
// private authors they follow.
func (h *PostHandler) GetFeed(c echo.Context) error {
	p := authz.PrincipalFrom(c)
	if p == nil {
		return authz.HTTPError(authz.ErrUnauthorized)
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var posts []models.Post
	err := h.DB.
		Joins("JOIN users ON users.id = posts.author_id").
		Where(
			"users.is_private = ? OR posts.author_id = ? OR posts.author_id IN (?)",
			false,
			p.ID,
			h.DB.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", p.ID),
		).
		Order("posts.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, posts)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
