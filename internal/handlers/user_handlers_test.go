package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pawfinder/backend/internal/models"
)

func TestGetUser(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}
	user := createUser(t, db, "a@x.com", "A")

	c, rec := newJSONContext(t, http.MethodGet, "/user/"+user.ID, nil)
	withParamID(c, "id", user.ID)
	require.NoError(t, h.GetUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Equal(t, user.ID, raw["_id"])
	require.NotContains(t, raw, "password")
	require.NotContains(t, rec.Body.String(), user.PasswordHash)

	c, _ = newJSONContext(t, http.MethodGet, "/user/missing", nil)
	withParamID(c, "id", "missing")
	requireHTTPError(t, h.GetUser(c), http.StatusNotFound)
}

func TestUpdateUserSelfOnly(t *testing.T) {
	db := InitTestDB(t)
	h := &UserHandler{DB: db}
	user := createUser(t, db, "a@x.com", "A")
	stranger := createUser(t, db, "b@x.com", "B")

	c, _ := newJSONContext(t, http.MethodPut, "/user/"+user.ID, map[string]string{"username": "Mallory"})
	withParamID(c, "id", user.ID)
	asUser(c, stranger.ID)
	requireHTTPError(t, h.UpdateUser(c), http.StatusForbidden)

	c, rec := newJSONContext(t, http.MethodPut, "/user/"+user.ID, map[string]string{"username": "Alice"})
	withParamID(c, "id", user.ID)
	asUser(c, user.ID)
	require.NoError(t, h.UpdateUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&stored).Error)
	require.Equal(t, "Alice", stored.Username)
}
