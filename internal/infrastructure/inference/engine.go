package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// Engine запускает модель над тензором. Один вызов модели за раз.
type Engine struct {
	timeout time.Duration

	// mu держится на всё время вызова модели, в том числе после таймаута.
	mu     sync.Mutex
	closed bool
}

// NewEngine создаёт движок. timeout <= 0 отключает ограничение времени.
func NewEngine(timeout time.Duration) *Engine {
	return &Engine{timeout: timeout}
}

var errEngineClosed = errors.New("engine is closed")

type runOutput struct {
	values []float32
	err    error
}

// Infer проверяет форму входа, запускает модель и возвращает единственное значение выхода.
func (e *Engine) Infer(ctx context.Context, model port.Model, input entity.InputTensor) (float32, error) {
	if model == nil {
		return 0, fmt.Errorf("%w: model is not loaded", entity.ErrRunFailed)
	}

	want := model.InputShape()
	if got := input.Shape(); !got.Equal(want) || input.Len() != want.Size() {
		return 0, fmt.Errorf("%w: input shape %s, model expects %s", entity.ErrFormatMismatch, got, want)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	// Модель не умеет отменяться, поэтому ждём её в отдельной горутине.
	done := make(chan runOutput, 1)
	go func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			done <- runOutput{err: errEngineClosed}
			return
		}
		values, err := model.Run(input.Values())
		done <- runOutput{values: values, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w: no result after %s", entity.ErrTimeout, e.timeout)
		}
		return 0, fmt.Errorf("%w: %v", entity.ErrRunFailed, ctx.Err())
	case out := <-done:
		return scoreFrom(model.OutputShape(), out)
	}
}

// Close дожидается текущего вызова модели и освобождает её. После Close
// Infer возвращает ErrRunFailed.
func (e *Engine) Close(model port.Model) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	if model == nil {
		return nil
	}
	return model.Close()
}

func scoreFrom(shape entity.Shape, out runOutput) (float32, error) {
	if out.err != nil {
		return 0, fmt.Errorf("%w: %v", entity.ErrRunFailed, out.err)
	}
	if len(out.values) == 0 {
		return 0, fmt.Errorf("%w: missing output", entity.ErrRunFailed)
	}
	if len(out.values) != shape.Size() || shape.Size() != entity.OutputShape().Size() {
		return 0, fmt.Errorf("%w: got %d output values for shape %s", entity.ErrRunFailed, len(out.values), shape)
	}

	score := out.values[0]
	if math.IsNaN(float64(score)) || math.IsInf(float64(score), 0) {
		return 0, fmt.Errorf("%w: output is not a number", entity.ErrRunFailed)
	}
	return score, nil
}

// Проверка реализации интерфейса
var _ port.InferenceEngine = (*Engine)(nil)
