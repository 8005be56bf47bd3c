package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pawfinder/backend/internal/models"
	"github.com/pawfinder/backend/internal/service/auth"
	"github.com/pawfinder/backend/internal/service/token"
)

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Post{}, &models.Comment{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newAuthService(t *testing.T, db *gorm.DB) *auth.AuthService {
	return &auth.AuthService{
		DB: db,
		Tokens: &token.TokenService{
			JWTSecret:     []byte("test-jwt-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
		},
		BcryptCost: bcrypt.MinCost,
	}
}

func newJSONContext(t *testing.T, method, target string, payload any) (echo.Context, *httptest.ResponseRecorder) {
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	e := echo.New()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func createUser(t *testing.T, db *gorm.DB, email, username string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Email: email, Username: username, PasswordHash: string(hash)}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createPost(t *testing.T, db *gorm.DB, sender string) *models.Post {
	post := models.Post{
		Sender:     sender,
		Type:       "lost",
		AnimalType: "dog",
		Location: models.Location{
			Type:        "Point",
			Coordinates: []float64{34.78, 32.08},
			Address:     "Rothschild Blvd 1",
		},
		DateTimeOccured: time.Now().Add(-time.Hour),
		Description:     "brown labrador, red collar",
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func requireHTTPError(t *testing.T, err error, code int) {
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}
