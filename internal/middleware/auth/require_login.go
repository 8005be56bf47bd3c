package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pawfinder/backend/internal/service/token"
)

const CtxUserID = "user_id"

type Gateway struct {
	Tokens *token.TokenService
}

func NewGateway(ts *token.TokenService) *Gateway {
	return &Gateway{Tokens: ts}
}

// RequireLogin rejects the request before the handler runs unless a valid
// bearer access token is presented. The decoded subject id is put into the
// echo context under CtxUserID.
func (g *Gateway) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access Denied")
		}

		userID, err := g.Tokens.VerifyAccess(strings.TrimSpace(raw))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Token")
		}

		c.Set(CtxUserID, userID)
		return next(c)
	}
}

// UserID reads the subject id attached by RequireLogin. Empty when the
// request did not pass through the gateway.
func UserID(c echo.Context) string {
	id, _ := c.Get(CtxUserID).(string)
	return id
}
