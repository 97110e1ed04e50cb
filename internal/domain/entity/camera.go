package entity

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Facing сторона камеры
type Facing string

const (
	FacingFront Facing = "front"
	FacingBack  Facing = "back"
)

// ParseFacing разбирает строку конфигурации.
func ParseFacing(s string) (Facing, error) {
	switch Facing(strings.ToLower(strings.TrimSpace(s))) {
	case FacingFront:
		return FacingFront, nil
	case FacingBack:
		return FacingBack, nil
	}
	return "", fmt.Errorf("unknown camera facing %q", s)
}

// Resolution желаемое разрешение захвата.
type Resolution struct {
	Width  int
	Height int
}

// ParseResolution разбирает строку вида "1280x720".
func ParseResolution(s string) (Resolution, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Resolution{}, fmt.Errorf("invalid resolution %q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return Resolution{}, fmt.Errorf("invalid resolution width %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return Resolution{}, fmt.Errorf("invalid resolution height %q", s)
	}
	return Resolution{Width: width, Height: height}, nil
}

func (r Resolution) String() string { return fmt.Sprintf("%dx%d", r.Width, r.Height) }

// StartOptions параметры запуска сессии камеры.
type StartOptions struct {
	Facing     Facing
	Resolution Resolution
}

// Viewport видимая область превью. Портретная ориентация: Height >= Width.
type Viewport image.Point
