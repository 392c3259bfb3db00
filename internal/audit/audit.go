// Package audit appends security-relevant events to the audit_logs table.
// Entries are write-only from the auth core's point of view.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ISanaSaki/inventory-api/internal/auth/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Service struct {
	db DB
}

func NewService(db DB) *Service {
	return &Service{db: db}
}

func (s *Service) Record(ctx context.Context, entry *domain.AuditEntry) error {
	oldData, err := marshalData(entry.OldData)
	if err != nil {
		return err
	}
	newData, err := marshalData(entry.NewData)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO audit_logs (id, user_id, action, entity, entity_id, old_data, new_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.NewString(), entry.UserID, entry.Action, entry.Entity, entry.EntityID,
		oldData, newData, time.Now())

	return err
}

func marshalData(data map[string]any) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	return json.Marshal(data)
}
