package vision

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"how-pretty/internal/domain/entity"
)

// FillViewport масштабирует кадр так, чтобы он целиком заполнил видимую
// область, и обрезает лишнее по центру. Превью всегда портретное.
func FillViewport(src image.Image, vp entity.Viewport) (image.Image, error) {
	if vp.X <= 0 || vp.Y <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", vp.X, vp.Y)
	}
	if src == nil || src.Bounds().Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	w, h := vp.X, vp.Y
	if w > h {
		w, h = h, w
	}

	return imaging.Fill(src, w, h, imaging.Center, imaging.Linear), nil
}
