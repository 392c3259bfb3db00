package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/ISanaSaki/inventory-api/internal/auth/service TokenGenerator

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ISanaSaki/inventory-api/config"
	autherror "github.com/ISanaSaki/inventory-api/internal/errors"
	"github.com/ISanaSaki/inventory-api/pkg/constant"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenGenerator interface {
	Generate(userID, email, role string) (*TokenPair, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error)
	HashRefreshToken(raw string) string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

// TokenService signs and verifies both token kinds. The two kinds use
// distinct secrets so a leaked access secret cannot forge refresh tokens and
// vice versa; the "type" claim is a second, non-cryptographic guard.
type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Issuer             string
	Audience           string
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"type"`
}

// TokenPair carries a freshly minted access/refresh pair plus the ledger
// bookkeeping for the refresh half.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	RefreshID        string
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		AccessTokenSecret:  cfg.AccessTokenSecret,
		RefreshTokenSecret: cfg.RefreshTokenSecret,
		AccessTokenExpiry:  time.Duration(cfg.AccessExpiryMin) * time.Minute,
		RefreshTokenExpiry: time.Duration(cfg.RefreshExpiryMin) * time.Minute,
		Issuer:             cfg.Issuer,
		Audience:           cfg.Audience,
	}
}

func (ts *TokenService) Generate(userID, email, role string) (*TokenPair, error) {
	now := time.Now()
	accessExpiresAt := now.Add(ts.AccessTokenExpiry)
	refreshExpiresAt := now.Add(ts.RefreshTokenExpiry)
	refreshID := uuid.NewString()

	accessClaims := JWTCustomClaims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: constant.TokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    ts.Issuer,
			Audience:  jwt.ClaimStrings{ts.Audience},
			ExpiresAt: jwt.NewNumericDate(accessExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	refreshClaims := JWTCustomClaims{
		UserID:    userID,
		Email:     email,
		TokenType: constant.TokenKindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    ts.Issuer,
			Audience:  jwt.ClaimStrings{ts.Audience},
			ExpiresAt: jwt.NewNumericDate(refreshExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        refreshID,
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(ts.AccessTokenSecret))
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
		refreshClaims).SignedString([]byte(ts.RefreshTokenSecret))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
		RefreshID:        refreshID,
	}, nil
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}

// VerifyAccessToken parses and validates an access token string.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, constant.TokenKindAccess, ts.AccessTokenSecret)
}

// VerifyRefreshToken parses and validates a refresh token string.
func (ts *TokenService) VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, constant.TokenKindRefresh, ts.RefreshTokenSecret)
}

// verify collapses every structural and cryptographic failure to
// ErrInvalidToken so callers cannot tell which check tripped.
func (ts *TokenService) verify(tokenString, expectedKind, secret string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(ts.Issuer),
		jwt.WithAudience(ts.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	if err != nil || !token.Valid {
		return nil, autherror.ErrInvalidToken
	}

	if claims.TokenType != expectedKind {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

// HashRefreshToken computes the keyed hash stored in the rotation ledger.
// Keyed with the refresh secret so a database leak alone is not enough to
// fabricate matching ledger rows.
func (ts *TokenService) HashRefreshToken(raw string) string {
	mac := hmac.New(sha256.New, []byte(ts.RefreshTokenSecret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
