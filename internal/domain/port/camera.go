package port

import (
	"context"
	"image"

	"how-pretty/internal/domain/entity"
)

// CaptureSession интерфейс сессии камеры
type CaptureSession interface {
	// Start выбирает устройство и открывает поток кадров
	Start(ctx context.Context, opts entity.StartOptions) error

	// Capture запрашивает один кадр; результат приходит в канал ровно один раз
	Capture(ctx context.Context) <-chan entity.CaptureResult

	// Preview возвращает последний кадр, обрезанный под видимую область
	Preview(ctx context.Context, viewport entity.Viewport) (image.Image, error)

	// Close освобождает устройство
	Close() error
}

// Preprocessor превращает кадр во входной тензор модели
type Preprocessor interface {
	ToTensor(img entity.CapturedImage) (entity.InputTensor, error)
}
