//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// Camera сессия захвата через OpenCV.
type Camera struct {
	devices Devices
	logger  *zap.Logger

	// mu сериализует доступ к устройству: одновременно идёт только один захват.
	mu     sync.Mutex
	webcam *gocv.VideoCapture
}

// NewCamera создаёт сессию для заданных устройств.
func NewCamera(devices Devices, logger *zap.Logger) *Camera {
	return &Camera{devices: devices, logger: logger}
}

// Start открывает устройство нужной стороны и задаёт разрешение.
func (c *Camera) Start(ctx context.Context, opts entity.StartOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := c.devices.resolve(opts.Facing)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.webcam != nil {
		return nil
	}

	var device interface{} = id
	if n, err := strconv.Atoi(id); err == nil {
		device = n
	}

	webcam, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInputUnavailable, err)
	}
	if !webcam.IsOpened() {
		webcam.Close()
		return fmt.Errorf("%w: device %s is not opened", entity.ErrInputUnavailable, id)
	}

	if opts.Resolution.Width > 0 && opts.Resolution.Height > 0 {
		webcam.Set(gocv.VideoCaptureFrameWidth, float64(opts.Resolution.Width))
		webcam.Set(gocv.VideoCaptureFrameHeight, float64(opts.Resolution.Height))
	}

	c.webcam = webcam
	c.logger.Info("camera started",
		zap.String("device", id),
		zap.String("facing", string(opts.Facing)),
		zap.Stringer("resolution", opts.Resolution))
	return nil
}

// Capture снимает один кадр и кодирует его в JPEG.
func (c *Camera) Capture(ctx context.Context) <-chan entity.CaptureResult {
	ch := make(chan entity.CaptureResult, 1)
	go func() {
		img, err := c.capture(ctx)
		ch <- entity.CaptureResult{Image: img, Err: err}
		close(ch)
	}()
	return ch
}

func (c *Camera) capture(ctx context.Context) (entity.CapturedImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return entity.CapturedImage{}, err
	}

	mat, err := c.readFrame()
	if err != nil {
		return entity.CapturedImage{}, err
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return entity.CapturedImage{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return entity.CapturedImage{
		Data:       bytes.Clone(buf.GetBytes()),
		Format:     "jpeg",
		Width:      mat.Cols(),
		Height:     mat.Rows(),
		CapturedAt: time.Now(),
	}, nil
}

// Preview возвращает текущий кадр, заполняющий видимую область.
func (c *Camera) Preview(ctx context.Context, viewport entity.Viewport) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := c.readFrame()
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	frame, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}

	return FillViewport(frame, viewport)
}

// readFrame читает кадр; вызывается под c.mu.
func (c *Camera) readFrame() (gocv.Mat, error) {
	if c.webcam == nil {
		return gocv.Mat{}, entity.ErrSessionStopped
	}

	mat := gocv.NewMat()
	if ok := c.webcam.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return gocv.Mat{}, errors.New("camera: failed to read frame")
	}
	return mat, nil
}

// Close освобождает устройство.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.webcam == nil {
		return nil
	}
	err := c.webcam.Close()
	c.webcam = nil
	return err
}

// Проверка реализации интерфейса
var _ port.CaptureSession = (*Camera)(nil)
