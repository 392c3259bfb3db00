package service

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/ISanaSaki/inventory-api/internal/auth/domain UserRepository,AuditRecorder

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ISanaSaki/inventory-api/config"
	"github.com/ISanaSaki/inventory-api/internal/auth/domain"
	"github.com/ISanaSaki/inventory-api/internal/auth/dto"
	"github.com/ISanaSaki/inventory-api/internal/auth/lockout"
	"github.com/ISanaSaki/inventory-api/internal/auth/password"
	autherror "github.com/ISanaSaki/inventory-api/internal/errors"
	"github.com/ISanaSaki/inventory-api/pkg/constant"
	"github.com/google/uuid"
)

type UserService struct {
	repo          domain.UserRepository
	tokenService  TokenGenerator
	audit         domain.AuditRecorder
	lockoutPolicy lockout.Policy
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator,
	audit domain.AuditRecorder, cfg *config.Config) *UserService {
	policy := lockout.DefaultPolicy()
	if cfg.LockoutThreshold > 0 {
		policy.Threshold = cfg.LockoutThreshold
	}
	if cfg.LockoutWindowMin > 0 {
		policy.Window = time.Duration(cfg.LockoutWindowMin) * time.Minute
	}
	if cfg.LockoutDurationMin > 0 {
		policy.Duration = time.Duration(cfg.LockoutDurationMin) * time.Minute
	}

	return &UserService{
		repo:          repo,
		tokenService:  tokenService,
		audit:         audit,
		lockoutPolicy: policy,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, autherror.ErrInvalidRole
	}

	if err := password.Validate(input.Password); err != nil {
		return nil, err
	}

	email := normalizeIdentifier(input.Email)

	existingUser, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	passwordHash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login deliberately returns the same ErrInvalidCredentials for unknown
// identifiers, wrong passwords, and locked accounts so callers cannot
// enumerate accounts or probe lockout state.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	identifier := normalizeIdentifier(input.Email)
	now := time.Now()

	user, err := s.repo.GetByEmail(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		s.recordAttempt(ctx, identifier, nil, false, input)
		return nil, autherror.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.recordAttempt(ctx, identifier, &user.ID, false, input)
		return nil, autherror.ErrInvalidCredentials
	}

	if lockout.IsLocked(user, now) {
		s.recordAttempt(ctx, identifier, &user.ID, false, input)
		return nil, autherror.ErrInvalidCredentials
	}

	match, err := password.Verify(input.Password, user.PasswordHash)
	if err != nil {
		// Malformed digest is an internal fault, not a credential mismatch.
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	if !match {
		lockout.RegisterFailure(user, now, s.lockoutPolicy)
		if err := s.repo.UpdateLoginState(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update login state: %w", err)
		}
		s.recordAttempt(ctx, identifier, &user.ID, false, input)
		return nil, autherror.ErrInvalidCredentials
	}

	lockout.RegisterSuccess(user)
	if err := s.repo.UpdateLoginState(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update login state: %w", err)
	}
	s.recordAttempt(ctx, identifier, &user.ID, true, input)

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token is consumed and a
// fresh pair is issued. Presenting an already-consumed token is treated as
// theft and revokes every active token the user holds.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	claims, err := s.tokenService.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, autherror.ErrInvalidCredentials
	}

	token, err := s.repo.GetRefreshTokenByJTI(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if token == nil {
		return nil, autherror.ErrInvalidCredentials
	}

	now := time.Now()

	if now.After(token.ExpiresAt) {
		if err := s.repo.RevokeRefreshToken(ctx, token.ID); err != nil {
			return nil, fmt.Errorf("failed to revoke expired token: %w", err)
		}
		return nil, autherror.ErrInvalidCredentials
	}

	if token.Revoked {
		s.revokeFamily(ctx, token.UserID, constant.ReasonRevokedTokenPresented, input)
		return nil, autherror.ErrInvalidCredentials
	}

	presentedHash := s.tokenService.HashRefreshToken(input.RefreshToken)
	if subtle.ConstantTimeCompare([]byte(presentedHash), []byte(token.TokenHash)) != 1 {
		// Signature and jti checked out but the stored hash disagrees:
		// either the ledger row was tampered with or the token was forged.
		s.revokeFamily(ctx, token.UserID, constant.ReasonTokenHashMismatch, input)
		return nil, autherror.ErrInvalidCredentials
	}

	consumed, err := s.repo.ConsumeRefreshToken(ctx, token.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	if !consumed {
		// A concurrent caller rotated this token first; the loser is
		// indistinguishable from a replay.
		s.revokeFamily(ctx, token.UserID, constant.ReasonRevokedTokenPresented, input)
		return nil, autherror.ErrInvalidCredentials
	}

	user, err := s.repo.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user for refresh: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, autherror.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the ledger row behind the presented refresh token. Invalid
// tokens are reported the same way as during refresh.
func (s *UserService) Logout(ctx context.Context, input dto.RefreshInput) error {
	claims, err := s.tokenService.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		return autherror.ErrInvalidCredentials
	}

	token, err := s.repo.GetRefreshTokenByJTI(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if token == nil {
		return autherror.ErrInvalidCredentials
	}

	return s.repo.RevokeRefreshToken(ctx, token.ID)
}

// RevokeAllSessions force-revokes every refresh token a user holds and
// audits the action. Used by the admin force-logout endpoint.
func (s *UserService) RevokeAllSessions(ctx context.Context, actorID, userID string) error {
	revoked, err := s.repo.RevokeAllByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	entry := &domain.AuditEntry{
		UserID:   &actorID,
		Action:   constant.AuditActionSessionsWiped,
		Entity:   constant.AuditEntityAuth,
		EntityID: &userID,
		NewData:  map[string]any{"revoked_count": revoked},
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		log.Printf("warn: failed to write audit entry for user %s: %v", userID, err)
	}

	return nil
}

func (s *UserService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, autherror.ErrUserInactive
	}
	return user, nil
}

func (s *UserService) issueTokens(ctx context.Context, user *domain.User) (*dto.TokenResponse, error) {
	pair, err := s.tokenService.Generate(user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	ledgerRow := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		JTI:       pair.RefreshID,
		TokenHash: s.tokenService.HashRefreshToken(pair.RefreshToken),
		Revoked:   false,
		ExpiresAt: pair.RefreshExpiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.repo.StoreRefreshToken(ctx, ledgerRow); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    constant.DefaultTokenType,
		ExpiresIn:    int(s.tokenService.GetAccessTokenExpiry().Seconds()),
	}, nil
}

// revokeFamily kills every active refresh token of the user and records why.
// Lineages are not tracked individually, so theft anywhere kills everything.
func (s *UserService) revokeFamily(ctx context.Context, userID, reason string, input dto.RefreshInput) {
	if _, err := s.repo.RevokeAllByUserID(ctx, userID); err != nil {
		log.Printf("warn: failed to revoke tokens for user %s: %v", userID, err)
	}

	entry := &domain.AuditEntry{
		UserID:   &userID,
		Action:   constant.AuditActionTokenReuse,
		Entity:   constant.AuditEntityAuth,
		EntityID: &userID,
		NewData: map[string]any{
			"reason":     reason,
			"ip":         input.IPAddress,
			"user_agent": input.UserAgent,
		},
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		log.Printf("warn: failed to write audit entry for user %s: %v", userID, err)
	}
}

func (s *UserService) recordAttempt(ctx context.Context, identifier string, userID *string,
	success bool, input dto.LoginInput) {
	attempt := &domain.LoginAttempt{
		ID:         uuid.NewString(),
		Identifier: identifier,
		UserID:     userID,
		Success:    success,
		IP:         input.IPAddress,
		UserAgent:  input.UserAgent,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.RecordLoginAttempt(ctx, attempt); err != nil {
		log.Printf("warn: failed to record login attempt for %s: %v", identifier, err)
	}
}

func normalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
