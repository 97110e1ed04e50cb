package entity

import (
	"fmt"
	"time"
)

// CapturedImage закодированный кадр, снятый по нажатию затвора.
type CapturedImage struct {
	Data       []byte    // закодированное изображение (JPEG)
	Format     string    // "jpeg", "png"
	Width      int       // ширина кадра в пикселях
	Height     int       // высота кадра в пикселях
	CapturedAt time.Time // момент съёмки
}

// CaptureResult результат одной съёмки: кадр либо ошибка.
type CaptureResult struct {
	Image CapturedImage
	Err   error
}

// PixelBuffer растр 4 байта на пиксель: байт 0 не используется,
// байты 1..3 содержат красный, зелёный и синий.
type PixelBuffer struct {
	width  int
	height int
	pix    []byte
}

const bytesPerPixel = 4

// NewPixelBuffer создаёт пустой буфер заданного размера.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid pixel buffer size %dx%d", width, height)
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*bytesPerPixel),
	}, nil
}

// Width возвращает ширину буфера.
func (b *PixelBuffer) Width() int { return b.width }

// Height возвращает высоту буфера.
func (b *PixelBuffer) Height() int { return b.height }

// SetRGB записывает пиксель (x, y).
func (b *PixelBuffer) SetRGB(x, y int, r, g, bl uint8) error {
	off, err := b.offset(x, y)
	if err != nil {
		return err
	}
	b.pix[off] = 0
	b.pix[off+1] = r
	b.pix[off+2] = g
	b.pix[off+3] = bl
	return nil
}

// RGB читает пиксель (x, y).
func (b *PixelBuffer) RGB(x, y int) (r, g, bl uint8, err error) {
	off, err := b.offset(x, y)
	if err != nil {
		return 0, 0, 0, err
	}
	return b.pix[off+1], b.pix[off+2], b.pix[off+3], nil
}

func (b *PixelBuffer) offset(x, y int) (int, error) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, fmt.Errorf("pixel (%d,%d) out of bounds %dx%d", x, y, b.width, b.height)
	}
	return (y*b.width + x) * bytesPerPixel, nil
}
