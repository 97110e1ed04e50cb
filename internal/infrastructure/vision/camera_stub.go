//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// Camera заглушка без OpenCV.
type Camera struct {
	devices Devices
	logger  *zap.Logger
}

// NewCamera создаёт камеру-заглушку (без OpenCV).
func NewCamera(devices Devices, logger *zap.Logger) *Camera {
	return &Camera{devices: devices, logger: logger}
}

// Start возвращает ErrNoDeviceFound, если сборка без тега gocv.
func (c *Camera) Start(ctx context.Context, opts entity.StartOptions) error {
	if _, err := c.devices.resolve(opts.Facing); err != nil {
		return err
	}
	return fmt.Errorf("%w: %v", entity.ErrNoDeviceFound, errNoGoCV)
}

// Capture всегда сообщает, что сессия не запущена.
func (c *Camera) Capture(ctx context.Context) <-chan entity.CaptureResult {
	ch := make(chan entity.CaptureResult, 1)
	ch <- entity.CaptureResult{Err: entity.ErrSessionStopped}
	close(ch)
	return ch
}

// Preview возвращает ошибку, если сборка без тега gocv.
func (c *Camera) Preview(ctx context.Context, viewport entity.Viewport) (image.Image, error) {
	return nil, entity.ErrSessionStopped
}

func (c *Camera) Close() error { return nil }

// Проверка реализации интерфейса
var _ port.CaptureSession = (*Camera)(nil)
