package storage

import (
	"context"
	"sync"
	"time"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// MemoryScoreRepository in-memory история оценок
type MemoryScoreRepository struct {
	mu     sync.RWMutex
	nextID int64
	scores []entity.ScoreRecord
	now    func() time.Time
}

// NewMemoryScoreRepository создаёт пустую историю
func NewMemoryScoreRepository() *MemoryScoreRepository {
	return &MemoryScoreRepository{now: time.Now}
}

// Save добавляет оценку в историю
func (r *MemoryScoreRepository) Save(ctx context.Context, score float32) (*entity.ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rec := entity.ScoreRecord{ID: r.nextID, Score: score, CreatedAt: r.now()}
	r.scores = append(r.scores, rec)

	return &rec, nil
}

// Recent возвращает последние limit оценок, новые первыми
func (r *MemoryScoreRepository) Recent(ctx context.Context, limit int) ([]entity.ScoreRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.scores) {
		limit = len(r.scores)
	}

	out := make([]entity.ScoreRecord, 0, limit)
	for i := len(r.scores) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.scores[i])
	}
	return out, nil
}

// Проверка реализации интерфейса
var _ port.ScoreRepository = (*MemoryScoreRepository)(nil)
