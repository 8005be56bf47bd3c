package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pawfinder/backend/internal/models"
)

func TestRegisterHandler(t *testing.T) {
	db := InitTestDB(t)
	h := &AuthHandler{Svc: newAuthService(t, db)}

	payload := map[string]string{
		"email":    "a@x.com",
		"password": "pw123456",
		"username": "A",
	}

	c, rec := newJSONContext(t, http.MethodPost, "/auth/register", payload)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "a@x.com", created.Email)
	require.Equal(t, "A", created.Username)

	// the password must never appear in the response, hashed or not
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.NotContains(t, raw, "password")
	require.NotContains(t, rec.Body.String(), "pw123456")

	c, _ = newJSONContext(t, http.MethodPost, "/auth/register", payload)
	requireHTTPError(t, h.Register(c), http.StatusBadRequest)
}

func TestRegisterHandlerValidation(t *testing.T) {
	db := InitTestDB(t)
	h := &AuthHandler{Svc: newAuthService(t, db)}

	c, _ := newJSONContext(t, http.MethodPost, "/auth/register", map[string]string{"email": "a@x.com"})
	requireHTTPError(t, h.Register(c), http.StatusBadRequest)
}

func TestLoginHandler(t *testing.T) {
	db := InitTestDB(t)
	svc := newAuthService(t, db)
	h := &AuthHandler{Svc: svc}

	c, rec := newJSONContext(t, http.MethodPost, "/auth/register", map[string]string{
		"email": "a@x.com", "password": "pw123456", "username": "A",
	})
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newJSONContext(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "pw123456",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	require.NotEmpty(t, resp["refreshToken"])
	require.NotEmpty(t, resp["_id"])

	sub, err := svc.Tokens.VerifyAccess(resp["token"])
	require.NoError(t, err)
	require.Equal(t, resp["_id"], sub)
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	db := InitTestDB(t)
	h := &AuthHandler{Svc: newAuthService(t, db)}

	c, rec := newJSONContext(t, http.MethodPost, "/auth/register", map[string]string{
		"email": "a@x.com", "password": "pw123456", "username": "A",
	})
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, _ = newJSONContext(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	requireHTTPError(t, h.Login(c), http.StatusBadRequest)

	c, _ = newJSONContext(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "pw123456",
	})
	requireHTTPError(t, h.Login(c), http.StatusBadRequest)
}

func TestLogoutHandler(t *testing.T) {
	db := InitTestDB(t)
	h := &AuthHandler{Svc: newAuthService(t, db)}

	c, _ := newJSONContext(t, http.MethodPost, "/auth/logout", map[string]string{})
	requireHTTPError(t, h.Logout(c), http.StatusBadRequest)

	// unknown token logs out silently
	c, rec := newJSONContext(t, http.MethodPost, "/auth/logout", map[string]string{
		"refreshToken": "unknown-token",
	})
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Logged out successfully", rec.Body.String())
}

func TestRefreshHandler(t *testing.T) {
	db := InitTestDB(t)
	h := &AuthHandler{Svc: newAuthService(t, db)}

	c, rec := newJSONContext(t, http.MethodPost, "/auth/register", map[string]string{
		"email": "a@x.com", "password": "pw123456", "username": "A",
	})
	require.NoError(t, h.Register(c))

	c, rec = newJSONContext(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "pw123456",
	})
	require.NoError(t, h.Login(c))
	var login map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	c, rec = newJSONContext(t, http.MethodPost, "/auth/refresh-token", map[string]string{
		"refreshToken": login["refreshToken"],
	})
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshed map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	require.NotEmpty(t, refreshed["token"])
	require.NotEmpty(t, refreshed["refreshToken"])
	require.NotEqual(t, login["refreshToken"], refreshed["refreshToken"])

	// replaying the consumed token is rejected
	c, _ = newJSONContext(t, http.MethodPost, "/auth/refresh-token", map[string]string{
		"refreshToken": login["refreshToken"],
	})
	requireHTTPError(t, h.Refresh(c), http.StatusUnauthorized)
}
