//go:build !tflite
// +build !tflite

package inference

import (
	"errors"

	"how-pretty/internal/domain/port"
)

// openTFLite возвращает ошибку, если сборка без тега tflite.
func openTFLite(cfg Config) (port.Model, error) {
	return nil, errors.New("tflite build tag is not enabled")
}
