package app

import (
	"context"
	"errors"
	"image"

	"go.uber.org/zap"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
	"how-pretty/internal/logging"
)

// App корневой компонент: запуск, возврат на передний план, действия пользователя.
type App struct {
	gate      *PermissionGate
	scoring   *ScoringService
	camera    port.CaptureSession
	model     port.Model
	presenter port.Presenter
	opts      entity.StartOptions
	logger    *zap.Logger
}

// NewApp собирает приложение из готовых сервисов.
func NewApp(gate *PermissionGate, scoring *ScoringService, camera port.CaptureSession, model port.Model,
	presenter port.Presenter, opts entity.StartOptions, logger *zap.Logger) *App {
	return &App{
		gate:      gate,
		scoring:   scoring,
		camera:    camera,
		model:     model,
		presenter: presenter,
		opts:      opts,
		logger:    logger,
	}
}

// Start проверяет доступ и запускает камеру. Вызывается в горутине интерфейса.
// Отсутствие камеры возвращается как ошибка запуска; занятая камера
// показывается пользователю, приложение продолжает работать.
func (a *App) Start(ctx context.Context) error {
	a.gate.Check()

	err := a.camera.Start(ctx, a.opts)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, entity.ErrInputUnavailable):
		a.logger.Warn("camera input unavailable", zap.Error(err))
		a.presenter.Show(titleCameraError, msgCameraInput)
		return nil
	}
	return logging.NewOperationError("startup", 0, err)
}

// Foreground повторяет проверку доступа при возвращении пользователя.
func (a *App) Foreground() {
	a.gate.Check()
}

// Shoot нажатие затвора. Повторное нажатие во время цикла игнорируется.
func (a *App) Shoot(ctx context.Context) error {
	_, err := a.scoring.Shutter(ctx)
	if errors.Is(err, entity.ErrCaptureInProgress) {
		a.logger.Debug("shutter ignored, capture in progress")
	}
	return err
}

// OpenSettings переход в настройки доступа к камере.
func (a *App) OpenSettings() {
	a.gate.OpenSettings()
}

// Preview кадр для превью в заданной области.
func (a *App) Preview(ctx context.Context, viewport entity.Viewport) (image.Image, error) {
	if !a.gate.Authorized() {
		return nil, entity.ErrPermissionDenied
	}
	return a.camera.Preview(ctx, viewport)
}

// History последние оценки.
func (a *App) History(ctx context.Context, limit int) ([]entity.ScoreRecord, error) {
	return a.scoring.History(ctx, limit)
}

// Close освобождает камеру и модель.
func (a *App) Close() error {
	var errs []error
	if a.camera != nil {
		errs = append(errs, a.camera.Close())
	}
	if a.model != nil {
		// модель закрывается через движок: вызов после таймаута мог ещё не завершиться
		errs = append(errs, a.scoring.engine.Close(a.model))
	}
	return errors.Join(errs...)
}
