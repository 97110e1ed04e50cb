package storage

import (
	"context"
	"sync"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// MemoryConsentRepository хранит решение о доступе до конца процесса
type MemoryConsentRepository struct {
	mu      sync.RWMutex
	consent entity.Consent
}

// NewMemoryConsentRepository создаёт хранилище без решения
func NewMemoryConsentRepository() *MemoryConsentRepository {
	return &MemoryConsentRepository{consent: entity.ConsentUnknown}
}

func (r *MemoryConsentRepository) Load(ctx context.Context) (entity.Consent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.consent, nil
}

func (r *MemoryConsentRepository) Save(ctx context.Context, consent entity.Consent) error {
	r.mu.Lock()
	r.consent = consent
	r.mu.Unlock()
	return nil
}

// Проверка реализации интерфейса
var _ port.ConsentRepository = (*MemoryConsentRepository)(nil)
