package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/pawfinder/backend/internal/middleware/auth"
	"github.com/pawfinder/backend/internal/models"
	"github.com/pawfinder/backend/internal/policy"
)

type UserHandler struct {
	DB *gorm.DB
}

func (h *UserHandler) GetUser(c echo.Context) error {
	var user models.User
	if err := h.DB.WithContext(c.Request().Context()).Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser lets a user edit their own profile. Password changes do not go
// through this route.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	if err := policy.RequireOwner(c.Param("id"), authmw.UserID(c)); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "You can only update your own profile")
	}

	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Username != "" {
		user.Username = req.Username
	}

	if err := h.DB.WithContext(ctx).Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, user)
}
