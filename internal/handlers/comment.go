package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pawfinder/backend/internal/events"
	"github.com/pawfinder/backend/internal/logging"
	authmw "github.com/pawfinder/backend/internal/middleware/auth"
	"github.com/pawfinder/backend/internal/models"
	"github.com/pawfinder/backend/internal/policy"
)

type CommentHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *CommentHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "comment_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *CommentHandler) GetComments(c echo.Context) error {
	var comments []models.Comment
	if err := h.DB.WithContext(c.Request().Context()).Order("created_at DESC").Find(&comments).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) GetComment(c echo.Context) error {
	var comment models.Comment
	if err := h.DB.WithContext(c.Request().Context()).Where("id = ?", c.Param("id")).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) GetCommentsByPost(c echo.Context) error {
	var comments []models.Comment
	err := h.DB.WithContext(c.Request().Context()).
		Where("post_id = ?", c.Param("postId")).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) CreateComment(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		PostID      string `json:"postId"`
		CommentText string `json:"commentText"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.PostID == "" || req.CommentText == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "postId and commentText are required")
	}

	var post models.Post
	if err := h.DB.WithContext(ctx).Where("id = ?", req.PostID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	comment := models.Comment{
		PostID:      req.PostID,
		Sender:      authmw.UserID(c),
		CommentText: req.CommentText,
	}
	if err := h.DB.WithContext(ctx).Create(&comment).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.publish(c, comment.ID, map[string]any{
		"type":      "comment_created",
		"commentID": comment.ID,
		"postID":    comment.PostID,
		"sender":    comment.Sender,
	})

	return c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) UpdateComment(c echo.Context) error {
	ctx := c.Request().Context()

	var comment models.Comment
	if err := h.DB.WithContext(ctx).Where("id = ?", c.Param("id")).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	if err := policy.RequireOwner(comment.Sender, authmw.UserID(c)); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "You can only update your own comments")
	}

	var req struct {
		CommentText string `json:"commentText"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.CommentText == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "commentText is required")
	}

	comment.CommentText = req.CommentText
	if err := h.DB.WithContext(ctx).Save(&comment).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) DeleteComment(c echo.Context) error {
	ctx := c.Request().Context()

	var comment models.Comment
	if err := h.DB.WithContext(ctx).Where("id = ?", c.Param("id")).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	if err := policy.RequireOwner(comment.Sender, authmw.UserID(c)); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own comments")
	}

	if err := h.DB.WithContext(ctx).Delete(&comment).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	return c.NoContent(http.StatusNoContent)
}
