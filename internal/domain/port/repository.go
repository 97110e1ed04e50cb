package port

import (
	"context"

	"how-pretty/internal/domain/entity"
)

// ScoreRepository история оценок
type ScoreRepository interface {
	// Save сохраняет оценку и возвращает запись с ID
	Save(ctx context.Context, score float32) (*entity.ScoreRecord, error)

	// Recent возвращает последние оценки, новые первыми
	Recent(ctx context.Context, limit int) ([]entity.ScoreRecord, error)
}

// ConsentRepository хранит решение пользователя о доступе к камере
type ConsentRepository interface {
	Load(ctx context.Context) (entity.Consent, error)
	Save(ctx context.Context, consent entity.Consent) error
}
