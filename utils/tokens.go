package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/voice-local/api-go/config"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("token is invalid or expired")

// TokenClaims are the claims carried by both access and refresh tokens.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.StandardClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTokenLifetime,
		refreshTTL: cfg.RefreshTokenLifetime,
		now:        time.Now,
	}
}

func (s *TokenService) IssuePair(userID uint) (*TokenPair, error) {
	access, err := s.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) IssueAccess(userID uint) (string, error) {
	return s.sign(userID, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) sign(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Parse verifies signature, expiry and token type.
func (s *TokenService) Parse(tokenString, expectedType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parser := &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}, SkipClaimsValidation: true}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	now := s.now().Unix()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expectedType || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
