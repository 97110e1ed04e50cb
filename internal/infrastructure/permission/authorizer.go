package permission

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// Question текст запроса доступа к камере.
const Question = "Allow access to the camera to score your photo?"

// Prompter спрашивает пользователя и ждёт ответа.
type Prompter interface {
	Ask(ctx context.Context, question string) (bool, error)
}

// Authorizer сочетает права ОС на узел устройства и сохранённое решение пользователя.
type Authorizer struct {
	device   string
	consent  port.ConsentRepository
	prompter Prompter
	logger   *zap.Logger
}

// NewAuthorizer создаёт авторизатор для узла device (пусто: не проверять права ОС).
func NewAuthorizer(device string, consent port.ConsentRepository, prompter Prompter, logger *zap.Logger) *Authorizer {
	return &Authorizer{device: device, consent: consent, prompter: prompter, logger: logger}
}

// AuthorizationStatus возвращает текущее состояние доступа.
func (a *Authorizer) AuthorizationStatus() entity.PermissionState {
	if a.restricted() {
		return entity.PermissionRestricted
	}

	consent, err := a.consent.Load(context.Background())
	if err != nil {
		a.logger.Warn("load camera consent", zap.Error(err))
		return entity.PermissionUndetermined
	}

	switch consent {
	case entity.ConsentGranted:
		return entity.PermissionAuthorized
	case entity.ConsentDenied:
		return entity.PermissionDenied
	}
	return entity.PermissionUndetermined
}

// restricted сообщает, что ОС не даёт процессу открыть устройство; пользователь это не изменит.
func (a *Authorizer) restricted() bool {
	if a.device == "" {
		return false
	}
	f, err := os.OpenFile(a.device, os.O_RDWR, 0)
	if err != nil {
		return errors.Is(err, fs.ErrPermission)
	}
	f.Close()
	return false
}

// RequestAccess спрашивает пользователя в отдельной горутине и сохраняет решение.
func (a *Authorizer) RequestAccess(callback func(granted bool)) {
	go func() {
		ctx := context.Background()

		granted, err := a.prompter.Ask(ctx, Question)
		if err != nil {
			a.logger.Warn("camera consent prompt failed", zap.Error(err))
			callback(false)
			return
		}

		consent := entity.ConsentDenied
		if granted {
			consent = entity.ConsentGranted
		}
		if err := a.consent.Save(ctx, consent); err != nil {
			a.logger.Error("save camera consent", zap.Error(err))
		}

		a.logger.Info("camera consent decided", zap.String("consent", string(consent)))
		callback(granted)
	}()
}

// Проверка реализации интерфейса
var _ port.Authorizer = (*Authorizer)(nil)
