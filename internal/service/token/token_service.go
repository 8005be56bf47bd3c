package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pawfinder/backend/internal/tokens"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// TokenService signs and verifies access/refresh pairs. It has no side
// effects; persistence of refresh tokens belongs to the auth service.
type TokenService struct {
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *TokenService) IssuePair(userID string) (*TokenPair, error) {
	accessExp := time.Now().Add(s.AccessTTL)
	accessToken, err := tokens.SignAccessToken(userID, s.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(s.RefreshTTL)
	refreshToken, err := tokens.SignRefreshToken(userID, uuid.NewString(), s.RefreshSecret, refreshExp)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *TokenService) VerifyAccess(tokenStr string) (string, error) {
	claims, err := tokens.AccessClaimsFromToken(tokenStr, s.JWTSecret)
	if err != nil {
		return "", classify(err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *TokenService) VerifyRefresh(tokenStr string) (string, error) {
	claims, err := tokens.RefreshClaimsFromToken(tokenStr, s.RefreshSecret)
	if err != nil {
		return "", classify(err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func classify(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrExpiredToken
	}
	return ErrInvalidToken
}
