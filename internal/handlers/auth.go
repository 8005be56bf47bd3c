package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pawfinder/backend/internal/events"
	"github.com/pawfinder/backend/internal/logging"
	"github.com/pawfinder/backend/internal/service/auth"
)

type AuthHandler struct {
	Svc      *auth.AuthService
	Producer *events.Producer
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email, password and username are required")
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password, req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.publish(c, user.ID, map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.publish(c, res.UserID, map[string]any{
		"type":   "user_logged_in",
		"userID": res.UserID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"token":        res.AccessToken,
		"refreshToken": res.RefreshToken,
		"_id":          res.UserID,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh Token Required")
	}

	if err := h.Svc.Logout(ctx, req.RefreshToken); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	return c.String(http.StatusOK, "Logged out successfully")
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh Token Required")
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Refresh Token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}
