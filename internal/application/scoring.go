package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
	"how-pretty/internal/logging"
)

// Тексты окон с ошибками.
const (
	titleCameraError  = "Camera error"
	msgCameraInput    = "Your camera can't be used as an input device."
	titlePhotoError   = "Photo error"
	msgPhotoDecode    = "The photo could not be read. Please try again."
	titleScoringError = "Scoring failed"
)

// ScoringService выполняет цикл съёмка → тензор → модель → показ результата.
type ScoringService struct {
	camera    port.CaptureSession
	prep      port.Preprocessor
	engine    port.InferenceEngine
	model     port.Model
	history   port.ScoreRepository
	presenter port.Presenter
	ui        port.Dispatcher
	gate      *PermissionGate
	logger    *zap.Logger

	busy   atomic.Bool
	cycles atomic.Uint64
}

// ScoringDeps зависимости сервиса оценки.
type ScoringDeps struct {
	Camera    port.CaptureSession
	Prep      port.Preprocessor
	Engine    port.InferenceEngine
	Model     port.Model
	History   port.ScoreRepository
	Presenter port.Presenter
	UI        port.Dispatcher
	Gate      *PermissionGate
	Logger    *zap.Logger
}

// NewScoringService создаёт сервис. Модель загружается заранее и передаётся готовой.
func NewScoringService(d ScoringDeps) *ScoringService {
	return &ScoringService{
		camera:    d.Camera,
		prep:      d.Prep,
		engine:    d.Engine,
		model:     d.Model,
		history:   d.History,
		presenter: d.Presenter,
		ui:        d.UI,
		gate:      d.Gate,
		logger:    d.Logger,
	}
}

// Shutter запускает один цикл. Пока цикл идёт, затвор заблокирован и
// возвращается ErrCaptureInProgress. Результат показывается через UI и
// дублируется в возвращаемый канал.
func (s *ScoringService) Shutter(ctx context.Context) (<-chan entity.InferenceResult, error) {
	if s.gate != nil {
		switch s.gate.Status() {
		case entity.PermissionAuthorized:
		case entity.PermissionDenied, entity.PermissionRestricted:
			s.ui.Post(s.presenter.ShowNotAuthorized)
			return nil, entity.ErrPermissionDenied
		default:
			// пользователь ещё отвечает на запрос доступа
			return nil, entity.ErrPermissionDenied
		}
	}

	if !s.busy.CompareAndSwap(false, true) {
		return nil, entity.ErrCaptureInProgress
	}

	id := s.cycles.Add(1)
	out := make(chan entity.InferenceResult, 1)

	go func() {
		res := s.cycle(ctx, id)
		s.ui.Post(func() { s.present(res) })
		s.busy.Store(false)
		out <- res
		close(out)
	}()

	return out, nil
}

// InProgress сообщает, идёт ли цикл.
func (s *ScoringService) InProgress() bool { return s.busy.Load() }

func (s *ScoringService) cycle(ctx context.Context, id uint64) entity.InferenceResult {
	log := logging.WithOperation(s.logger, "score", id)

	var captured entity.CaptureResult
	select {
	case captured = <-s.camera.Capture(ctx):
	case <-ctx.Done():
		captured.Err = ctx.Err()
	}
	if captured.Err != nil {
		log.Warn("capture failed", zap.Error(captured.Err))
		return entity.InferenceResult{Err: logging.NewOperationError("capture", id, captured.Err)}
	}
	log.Debug("photo captured",
		zap.Int("width", captured.Image.Width),
		zap.Int("height", captured.Image.Height),
		zap.Int("bytes", len(captured.Image.Data)))

	tensor, err := s.prep.ToTensor(captured.Image)
	if err != nil {
		log.Warn("preprocess failed", zap.Error(err))
		return entity.InferenceResult{Err: logging.NewOperationError("preprocess", id, err)}
	}

	score, err := s.engine.Infer(ctx, s.model, tensor)
	if err != nil {
		log.Error("inference failed", zap.Error(err))
		return entity.InferenceResult{Err: logging.NewOperationError("inference", id, err)}
	}

	if s.history != nil {
		if _, err := s.history.Save(ctx, score); err != nil {
			log.Warn("save score", zap.Error(err))
		}
	}

	log.Info("photo scored", zap.Float32("score", score))
	return entity.InferenceResult{Score: score}
}

// present показывает результат; вызывается только в горутине интерфейса.
func (s *ScoringService) present(res entity.InferenceResult) {
	title, message := describe(res)
	s.presenter.Show(title, message)
}

func describe(res entity.InferenceResult) (title, message string) {
	err := res.Err
	switch {
	case err == nil:
		return entity.FormatScore(res.Score), ""
	case errors.Is(err, entity.ErrSessionStopped), errors.Is(err, entity.ErrInputUnavailable):
		return titleCameraError, msgCameraInput
	case errors.Is(err, entity.ErrDecodeFailed):
		return titlePhotoError, msgPhotoDecode
	case errors.Is(err, entity.ErrTimeout):
		return titleScoringError, "The model took too long to respond. Please try again."
	case errors.Is(err, entity.ErrRunFailed), errors.Is(err, entity.ErrFormatMismatch):
		return titleScoringError, fmt.Sprintf("The model could not score this photo (%v).", cause(err))
	}
	return titleCameraError, fmt.Sprintf("The photo could not be taken (%v).", cause(err))
}

func cause(err error) error {
	var op *logging.OperationError
	if errors.As(err, &op) {
		return op.Err
	}
	return err
}

// History возвращает последние оценки.
func (s *ScoringService) History(ctx context.Context, limit int) ([]entity.ScoreRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(ctx, limit)
}
