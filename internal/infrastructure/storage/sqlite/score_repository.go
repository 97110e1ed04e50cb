package sqlite

import (
	"context"
	"fmt"
	"time"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// ScoreRepository история оценок в SQLite.
type ScoreRepository struct {
	db *DB
}

// NewScoreRepository создаёт репозиторий поверх открытой базы.
func NewScoreRepository(db *DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Save добавляет оценку и возвращает сохранённую запись.
func (r *ScoreRepository) Save(ctx context.Context, score float32) (*entity.ScoreRecord, error) {
	now := time.Now().UTC()
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO scores (score, created_at) VALUES (?, ?)`, float64(score), now)
	if err != nil {
		return nil, fmt.Errorf("insert score: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert score: %w", err)
	}

	return &entity.ScoreRecord{ID: id, Score: score, CreatedAt: now}, nil
}

// Recent возвращает до limit оценок, новые первыми. limit <= 0: все.
func (r *ScoreRepository) Recent(ctx context.Context, limit int) ([]entity.ScoreRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, score, created_at FROM scores ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var records []entity.ScoreRecord
	for rows.Next() {
		var (
			rec   entity.ScoreRecord
			score float64
		)
		if err := rows.Scan(&rec.ID, &score, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		rec.Score = float32(score)
		records = append(records, rec)
	}

	return records, rows.Err()
}

var _ port.ScoreRepository = (*ScoreRepository)(nil)
