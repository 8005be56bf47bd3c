package handlers

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pawfinder/backend/internal/events"
	"github.com/pawfinder/backend/internal/logging"
	authmw "github.com/pawfinder/backend/internal/middleware/auth"
	"github.com/pawfinder/backend/internal/models"
	"github.com/pawfinder/backend/internal/policy"
	"github.com/pawfinder/backend/internal/util"
)

type PostHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

type postRequest struct {
	Type            string          `json:"type"`
	AnimalType      string          `json:"animalType"`
	Location        models.Location `json:"location"`
	DateTimeOccured time.Time       `json:"dateTimeOccured"`
	Description     string          `json:"description"`
	Photos          []string        `json:"photos"`
	IsResolved      bool            `json:"isResolved"`
}

func (r *postRequest) validate() error {
	if !slices.Contains(models.PostTypes, r.Type) {
		return errors.New("type must be one of: lost, found")
	}
	if !slices.Contains(models.AnimalTypes, r.AnimalType) {
		return errors.New("unknown animal type")
	}
	if len(r.Location.Coordinates) != 2 {
		return errors.New("location.coordinates must be [longitude, latitude]")
	}
	if r.DateTimeOccured.IsZero() {
		return errors.New("dateTimeOccured is required")
	}
	return nil
}

func (h *PostHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "post_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *PostHandler) GetPosts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	ctx := c.Request().Context()
	sender := c.QueryParam("sender")

	filter := func(q *gorm.DB) *gorm.DB {
		if sender != "" {
			return q.Where("sender = ?", sender)
		}
		return q
	}

	var total int64
	if err := filter(h.DB.WithContext(ctx).Model(&models.Post{})).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	var items []models.Post
	if err := filter(h.DB.WithContext(ctx)).Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *PostHandler) GetPost(c echo.Context) error {
	var post models.Post
	if err := h.DB.WithContext(c.Request().Context()).Where("id = ?", c.Param("id")).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) CreatePost(c echo.Context) error {
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Location.Type == "" {
		req.Location.Type = "Point"
	}

	post := models.Post{
		Sender:          authmw.UserID(c),
		Type:            req.Type,
		AnimalType:      req.AnimalType,
		Location:        req.Location,
		DateTimeOccured: req.DateTimeOccured,
		Description:     req.Description,
		Photos:          req.Photos,
		IsResolved:      req.IsResolved,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&post).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.publish(c, post.ID, map[string]any{
		"type":       "post_created",
		"postID":     post.ID,
		"sender":     post.Sender,
		"animalType": post.AnimalType,
	})

	return c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) UpdatePost(c echo.Context) error {
	ctx := c.Request().Context()

	var post models.Post
	if err := h.DB.WithContext(ctx).Where("id = ?", c.Param("id")).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	if err := policy.RequireOwner(post.Sender, authmw.UserID(c)); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "You can only update your own posts")
	}

	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Location.Type == "" {
		req.Location.Type = "Point"
	}

	post.Type = req.Type
	post.AnimalType = req.AnimalType
	post.Location = req.Location
	post.DateTimeOccured = req.DateTimeOccured
	post.Description = req.Description
	post.Photos = req.Photos
	post.IsResolved = req.IsResolved

	if err := h.DB.WithContext(ctx).Save(&post).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.publish(c, post.ID, map[string]any{
		"type":   "post_updated",
		"postID": post.ID,
		"sender": post.Sender,
	})

	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()

	var post models.Post
	if err := h.DB.WithContext(ctx).Where("id = ?", c.Param("id")).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	if err := policy.RequireOwner(post.Sender, authmw.UserID(c)); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
	}

	if err := h.DB.WithContext(ctx).Delete(&post).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.publish(c, post.ID, map[string]any{
		"type":   "post_deleted",
		"postID": post.ID,
	})

	return c.NoContent(http.StatusNoContent)
}
