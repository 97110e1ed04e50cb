package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// ConsentRepository хранит единственное решение о доступе к камере.
type ConsentRepository struct {
	db *DB
}

// NewConsentRepository создаёт репозиторий поверх открытой базы.
func NewConsentRepository(db *DB) *ConsentRepository {
	return &ConsentRepository{db: db}
}

// Load возвращает сохранённое решение или ConsentUnknown.
func (r *ConsentRepository) Load(ctx context.Context) (entity.Consent, error) {
	var decision string
	err := r.db.conn.QueryRowContext(ctx, `SELECT decision FROM consent WHERE id = 1`).Scan(&decision)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ConsentUnknown, nil
	}
	if err != nil {
		return entity.ConsentUnknown, fmt.Errorf("load consent: %w", err)
	}
	return entity.Consent(decision), nil
}

// Save сохраняет решение, перезаписывая прежнее.
func (r *ConsentRepository) Save(ctx context.Context, consent entity.Consent) error {
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO consent (id, decision, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET decision = excluded.decision, updated_at = excluded.updated_at`,
		string(consent), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save consent: %w", err)
	}
	return nil
}

var _ port.ConsentRepository = (*ConsentRepository)(nil)
