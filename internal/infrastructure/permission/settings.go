package permission

import (
	"context"

	"go.uber.org/zap"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// Settings аналог перехода в системные настройки: забывает сохранённое
// решение, чтобы следующая проверка снова спросила пользователя.
type Settings struct {
	consent port.ConsentRepository
	logger  *zap.Logger
}

// NewSettings создаёт настройки поверх хранилища согласия.
func NewSettings(consent port.ConsentRepository, logger *zap.Logger) *Settings {
	return &Settings{consent: consent, logger: logger}
}

// Open сбрасывает решение и вызывает done из фоновой горутины.
func (s *Settings) Open(done func()) {
	go func() {
		if err := s.consent.Save(context.Background(), entity.ConsentUnknown); err != nil {
			s.logger.Error("reset camera consent", zap.Error(err))
		}
		done()
	}()
}

// Проверка реализации интерфейса
var _ port.SettingsOpener = (*Settings)(nil)
