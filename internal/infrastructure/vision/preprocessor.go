package vision

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// Preprocessor приводит кадр к входу модели: 150x150, RGB, значения байт/255.
type Preprocessor struct {
	side   int
	filter resize.InterpolationFunction
}

// NewPreprocessor создаёт препроцессор с билинейной интерполяцией.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		side:   entity.TensorSide,
		filter: resize.Bilinear,
	}
}

// ToTensor декодирует кадр и строит тензор [1,150,150,3].
func (p *Preprocessor) ToTensor(img entity.CapturedImage) (entity.InputTensor, error) {
	if len(img.Data) == 0 {
		return entity.InputTensor{}, fmt.Errorf("%w: empty image", entity.ErrDecodeFailed)
	}

	// EXIF-ориентация учитывается, иначе снимок с телефона окажется повёрнутым.
	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return entity.InputTensor{}, fmt.Errorf("%w: %v", entity.ErrDecodeFailed, err)
	}

	return p.FromImage(decoded)
}

// FromImage строит тензор из уже декодированного изображения.
func (p *Preprocessor) FromImage(src image.Image) (entity.InputTensor, error) {
	if src == nil || src.Bounds().Empty() {
		return entity.InputTensor{}, fmt.Errorf("%w: empty image", entity.ErrDecodeFailed)
	}

	b := src.Bounds()
	if b.Dx() != p.side || b.Dy() != p.side {
		src = resize.Resize(uint(p.side), uint(p.side), src, p.filter)
	}

	buf, err := render(src)
	if err != nil {
		return entity.InputTensor{}, fmt.Errorf("%w: %v", entity.ErrDecodeFailed, err)
	}

	data := make([]float32, 0, entity.TensorLength)
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			r, g, bl, err := buf.RGB(x, y)
			if err != nil {
				return entity.InputTensor{}, fmt.Errorf("%w: %v", entity.ErrDecodeFailed, err)
			}
			data = append(data, float32(r)/255.0, float32(g)/255.0, float32(bl)/255.0)
		}
	}

	return entity.NewInputTensor(data, entity.InputShape())
}

// render рисует изображение в XRGB-буфер. Альфа отбрасывается, цвет
// берётся премультиплицированным, то есть как при наложении на чёрный.
func render(src image.Image) (*entity.PixelBuffer, error) {
	b := src.Bounds()
	buf, err := entity.NewPixelBuffer(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if err := buf.SetRGB(x, y, uint8(r>>8), uint8(g>>8), uint8(bl>>8)); err != nil {
				return nil, err
			}
		}
	}

	return buf, nil
}

// Проверка реализации интерфейса
var _ port.Preprocessor = (*Preprocessor)(nil)
