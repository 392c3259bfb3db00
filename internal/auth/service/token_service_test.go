package service

import (
	"testing"
	"time"

	"github.com/ISanaSaki/inventory-api/config"
	autherror "github.com/ISanaSaki/inventory-api/internal/errors"
	"github.com/ISanaSaki/inventory-api/pkg/constant"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "test-access-secret-key-123",
		RefreshTokenSecret: "test-refresh-secret-key-456",
		AccessExpiryMin:    15,
		RefreshExpiryMin:   1440,
		Issuer:             "inventory-api",
		Audience:           "inventory-api-clients",
	}
}

func TestNewTokenService(t *testing.T) {
	cfg := testTokenConfig()
	ts := NewTokenService(cfg)

	assert.NotNil(t, ts)
	assert.Equal(t, cfg.AccessTokenSecret, ts.AccessTokenSecret)
	assert.Equal(t, cfg.RefreshTokenSecret, ts.RefreshTokenSecret)
	assert.Equal(t, 15*time.Minute, ts.AccessTokenExpiry)
	assert.Equal(t, 1440*time.Minute, ts.RefreshTokenExpiry)
	assert.Equal(t, cfg.Issuer, ts.Issuer)
	assert.Equal(t, cfg.Audience, ts.Audience)
}

func TestTokenService_Generate(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		email  string
		role   string
	}{
		{"user role", "user-123", "test@example.com", "user"},
		{"admin role", "admin-456", "admin@example.com", "admin"},
		{"empty user data", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService(testTokenConfig())

			beforeGenerate := time.Now()
			pair, err := ts.Generate(tt.userID, tt.email, tt.role)
			afterGenerate := time.Now()

			require.NoError(t, err)
			assert.NotEmpty(t, pair.AccessToken)
			assert.NotEmpty(t, pair.RefreshToken)
			assert.NotEmpty(t, pair.RefreshID)

			expectedExpiry := beforeGenerate.Add(ts.AccessTokenExpiry)
			assert.True(t, pair.AccessExpiresAt.After(expectedExpiry.Add(-time.Second)))
			assert.True(t, pair.AccessExpiresAt.Before(afterGenerate.Add(ts.AccessTokenExpiry).Add(time.Second)))
			assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

			accessClaims, err := ts.VerifyAccessToken(pair.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, accessClaims.UserID)
			assert.Equal(t, tt.email, accessClaims.Email)
			assert.Equal(t, tt.role, accessClaims.Role)
			assert.Equal(t, tt.userID, accessClaims.Subject)
			assert.Equal(t, constant.TokenKindAccess, accessClaims.TokenType)
			assert.Equal(t, ts.Issuer, accessClaims.Issuer)
			assert.Equal(t, jwt.ClaimStrings{ts.Audience}, accessClaims.Audience)
			assert.NotEmpty(t, accessClaims.ID)
			assert.NotNil(t, accessClaims.NotBefore)

			refreshClaims, err := ts.VerifyRefreshToken(pair.RefreshToken)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, refreshClaims.UserID)
			assert.Equal(t, constant.TokenKindRefresh, refreshClaims.TokenType)
			assert.Equal(t, pair.RefreshID, refreshClaims.ID)
			// Role rides only in the access token.
			assert.Empty(t, refreshClaims.Role)
		})
	}
}

func TestTokenService_Generate_UniqueJTI(t *testing.T) {
	ts := NewTokenService(testTokenConfig())

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		pair, err := ts.Generate("user-123", "test@example.com", "user")
		require.NoError(t, err)
		assert.False(t, seen[pair.RefreshID], "jti must be unique per issuance")
		seen[pair.RefreshID] = true
	}
}

func TestTokenService_Verify_KindMismatch(t *testing.T) {
	ts := NewTokenService(testTokenConfig())

	pair, err := ts.Generate("user-123", "test@example.com", "user")
	require.NoError(t, err)

	// An access token presented as refresh fails even though its own
	// signature is valid, and vice versa.
	_, err = ts.VerifyRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, autherror.ErrInvalidToken)

	_, err = ts.VerifyAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, autherror.ErrInvalidToken)
}

func TestTokenService_Verify_DistinctSecretsPerKind(t *testing.T) {
	ts := NewTokenService(testTokenConfig())

	pair, err := ts.Generate("user-123", "test@example.com", "user")
	require.NoError(t, err)

	// A codec whose refresh secret equals the other side's access secret
	// must not accept the access token as a refresh token even if the type
	// claim were ignored.
	crossed := NewTokenService(testTokenConfig())
	crossed.RefreshTokenSecret = ts.AccessTokenSecret

	_, err = crossed.VerifyRefreshToken(pair.RefreshToken)
	assert.ErrorIs(t, err, autherror.ErrInvalidToken)
}

func TestTokenService_Verify_Rejections(t *testing.T) {
	ts := NewTokenService(testTokenConfig())

	makeToken := func(mutate func(*JWTCustomClaims), secret string) string {
		now := time.Now()
		claims := &JWTCustomClaims{
			UserID:    "user-123",
			Email:     "test@example.com",
			TokenType: constant.TokenKindAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-123",
				Issuer:    ts.Issuer,
				Audience:  jwt.ClaimStrings{ts.Audience},
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
				NotBefore: jwt.NewNumericDate(now),
				ID:        "jti-1",
			},
		}
		mutate(claims)
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return signed
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong secret", makeToken(func(c *JWTCustomClaims) {}, "wrong-secret")},
		{"expired", makeToken(func(c *JWTCustomClaims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		}, ts.AccessTokenSecret)},
		{"not yet valid", makeToken(func(c *JWTCustomClaims) {
			c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
		}, ts.AccessTokenSecret)},
		{"wrong issuer", makeToken(func(c *JWTCustomClaims) {
			c.Issuer = "someone-else"
		}, ts.AccessTokenSecret)},
		{"wrong audience", makeToken(func(c *JWTCustomClaims) {
			c.Audience = jwt.ClaimStrings{"other-clients"}
		}, ts.AccessTokenSecret)},
		{"missing expiry", makeToken(func(c *JWTCustomClaims) {
			c.ExpiresAt = nil
		}, ts.AccessTokenSecret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ts.VerifyAccessToken(tt.token)
			// Every failure collapses to the same generic error.
			assert.ErrorIs(t, err, autherror.ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestTokenService_Verify_RejectsNoneAlgorithm(t *testing.T) {
	ts := NewTokenService(testTokenConfig())

	claims := &JWTCustomClaims{
		TokenType: constant.TokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Audience:  jwt.ClaimStrings{ts.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.VerifyAccessToken(unsigned)
	assert.ErrorIs(t, err, autherror.ErrInvalidToken)
}

func TestTokenService_HashRefreshToken(t *testing.T) {
	ts := NewTokenService(testTokenConfig())

	first := ts.HashRefreshToken("some-raw-token")
	second := ts.HashRefreshToken("some-raw-token")
	other := ts.HashRefreshToken("another-raw-token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.NotContains(t, first, "some-raw-token")

	// Hash is keyed: a different secret yields a different digest.
	rekeyed := NewTokenService(testTokenConfig())
	rekeyed.RefreshTokenSecret = "completely-different-secret"
	assert.NotEqual(t, first, rekeyed.HashRefreshToken("some-raw-token"))
}
