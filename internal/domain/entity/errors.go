package entity

import "errors"

// Ошибки конвейера оценки. Компоненты оборачивают их через %w,
// вызывающий код проверяет errors.Is.
var (
	ErrNoDeviceFound     = errors.New("camera: no device found")
	ErrInputUnavailable  = errors.New("camera: input unavailable")
	ErrSessionStopped    = errors.New("camera: session is not running")
	ErrDecodeFailed      = errors.New("preprocess: decode failed")
	ErrRunFailed         = errors.New("inference: run failed")
	ErrFormatMismatch    = errors.New("inference: format mismatch")
	ErrTimeout           = errors.New("inference: timeout")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrCaptureInProgress = errors.New("capture already in progress")
)
