package domain

import "context"

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateLoginState(ctx context.Context, user *User) error
	RecordLoginAttempt(ctx context.Context, attempt *LoginAttempt) error
	StoreRefreshToken(ctx context.Context, rt *RefreshToken) error
	GetRefreshTokenByJTI(ctx context.Context, jti string) (*RefreshToken, error)
	// ConsumeRefreshToken flips revoked from false to true and reports
	// whether this caller won the flip. A false result means the row was
	// already revoked by someone else.
	ConsumeRefreshToken(ctx context.Context, id string) (bool, error)
	RevokeRefreshToken(ctx context.Context, id string) error
	RevokeAllByUserID(ctx context.Context, userID string) (int64, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *AuditEntry) error
}
