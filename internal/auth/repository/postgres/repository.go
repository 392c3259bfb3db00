package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ISanaSaki/inventory-api/internal/auth/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of pgxpool.Pool the repository needs. pgxmock satisfies it
// too, which is what the tests run against.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, role, is_active, is_verified,
	       failed_login_count, last_failed_at, locked_until, created_at, updated_at`

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role,
		&user.IsActive, &user.IsVerified, &user.FailedLoginCount,
		&user.LastFailedAt, &user.LockedUntil, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, email, password_hash, role, is_active, is_verified,
                           failed_login_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, user.ID, user.Email, user.PasswordHash, user.Role, user.IsActive,
		user.IsVerified, user.FailedLoginCount, user.CreatedAt, user.UpdatedAt)

	return err
}

// UpdateLoginState persists the lockout bookkeeping fields after a login
// attempt has been registered against the in-memory user.
func (r *PostgresRepository) UpdateLoginState(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET failed_login_count = $2, last_failed_at = $3, locked_until = $4, updated_at = now()
		WHERE id = $1
	`, user.ID, user.FailedLoginCount, user.LastFailedAt, user.LockedUntil)

	return err
}

func (r *PostgresRepository) RecordLoginAttempt(ctx context.Context, attempt *domain.LoginAttempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, identifier, user_id, success, ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, attempt.ID, attempt.Identifier, attempt.UserID, attempt.Success,
		attempt.IP, attempt.UserAgent, attempt.CreatedAt)

	return err
}

func (r *PostgresRepository) StoreRefreshToken(ctx context.Context, rt *domain.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, jti, token_hash, revoked, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		rt.ID, rt.UserID, rt.JTI, rt.TokenHash, rt.Revoked, rt.ExpiresAt, rt.CreatedAt)

	return err
}

func (r *PostgresRepository) GetRefreshTokenByJTI(ctx context.Context, jti string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, jti, token_hash, revoked, expires_at, created_at
		FROM refresh_tokens
		WHERE jti = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, jti)

	var rt domain.RefreshToken
	err := row.Scan(&rt.ID, &rt.UserID, &rt.JTI, &rt.TokenHash, &rt.Revoked,
		&rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &rt, nil
}

// ConsumeRefreshToken is a compare-and-swap on the revoked flag. Of two
// concurrent callers presenting the same token, exactly one sees true.
func (r *PostgresRepository) ConsumeRefreshToken(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE id = $1 AND revoked = FALSE
	`, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (r *PostgresRepository) RevokeRefreshToken(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE id = $1
	`, id)

	return err
}

func (r *PostgresRepository) RevokeAllByUserID(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE user_id = $1 AND revoked = FALSE
	`, userID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
