package audit_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ISanaSaki/inventory-api/internal/audit"
	"github.com/ISanaSaki/inventory-api/internal/auth/domain"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := audit.NewService(mock)
	ctx := context.Background()

	userID := "user-123"
	entry := &domain.AuditEntry{
		UserID:   &userID,
		Action:   "TOKEN_REUSE_DETECTED",
		Entity:   "auth",
		EntityID: &userID,
		NewData:  map[string]any{"reason": "revoked_token_presented"},
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO audit_logs").
			WithArgs(pgxmock.AnyArg(), entry.UserID, entry.Action, entry.Entity,
				entry.EntityID, []byte(nil), []byte(`{"reason":"revoked_token_presented"}`), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := s.Record(ctx, entry)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO audit_logs").
			WithArgs(pgxmock.AnyArg(), entry.UserID, entry.Action, entry.Entity,
				entry.EntityID, []byte(nil), []byte(`{"reason":"revoked_token_presented"}`), pgxmock.AnyArg()).
			WillReturnError(fmt.Errorf("db error"))

		err := s.Record(ctx, entry)
		assert.Error(t, err)
	})
}
