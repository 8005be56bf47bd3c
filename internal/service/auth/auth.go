package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pawfinder/backend/internal/hash"
	"github.com/pawfinder/backend/internal/logging"
	"github.com/pawfinder/backend/internal/models"
	"github.com/pawfinder/backend/internal/service/token"
	"github.com/pawfinder/backend/internal/tokens"
)

var (
	ErrEmailTaken          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

var errTokenReused = errors.New("refresh token already rotated")

type AuthService struct {
	DB         *gorm.DB
	Tokens     *token.TokenService
	BcryptCost int
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	UserID       string
}

func (s *AuthService) Register(ctx context.Context, email, password, username string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	var existing models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_failed", "error", err)
		return nil, err
	}

	pwHash, err := hash.HashPassword(password, s.BcryptCost)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: pwHash,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		l.Error("register_failed", "error", err)
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.Tokens.IssuePair(user.ID)
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, err
	}

	refreshModel := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: tokens.Sha256Hex(pair.RefreshToken),
		ExpiresAt: pair.RefreshExp.Unix(),
	}
	if err := s.DB.WithContext(ctx).Create(&refreshModel).Error; err != nil {
		l.Error("login_failed", "error", err)
		return nil, err
	}

	return &LoginResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       user.ID,
	}, nil
}

// Logout removes exactly the presented refresh token. Unknown tokens succeed
// silently.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.DB.WithContext(ctx).
		Where("token_hash = ?", tokens.Sha256Hex(refreshToken)).
		Delete(&models.RefreshToken{}).Error
}

// Refresh rotates the presented token. Presenting a token that verified
// cryptographically but is no longer in the user's set means it has already
// been rotated out; that is treated as replay and revokes every session the
// user has.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*token.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	userID, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_failed", "error", err)
		return nil, err
	}

	pair, err := s.Tokens.IssuePair(user.ID)
	if err != nil {
		l.Error("refresh_failed", "error", err)
		return nil, err
	}

	oldHash := tokens.Sha256Hex(refreshToken)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND token_hash = ?", user.ID, oldHash).
			Delete(&models.RefreshToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errTokenReused
		}
		return tx.Create(&models.RefreshToken{
			UserID:    user.ID,
			TokenHash: tokens.Sha256Hex(pair.RefreshToken),
			ExpiresAt: pair.RefreshExp.Unix(),
		}).Error
	})
	if errors.Is(err, errTokenReused) {
		l.Warn("refresh_token_reuse", "user_id", user.ID)
		if err := s.DB.WithContext(ctx).Where("user_id = ?", user.ID).
			Delete(&models.RefreshToken{}).Error; err != nil {
			l.Error("session_revoke_failed", "user_id", user.ID, "error", err)
		}
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		l.Error("refresh_failed", "error", err)
		return nil, err
	}

	return pair, nil
}
