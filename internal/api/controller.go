// Package api пользовательские front end. Каждый превращает ввод в вызовы
// Controller в горутине интерфейса и реализует презентер.
package api

import (
	"context"
	"image"

	"how-pretty/internal/domain/entity"
)

// Controller действия пользователя, общие для всех front end.
type Controller interface {
	Shoot(ctx context.Context) error
	OpenSettings()
	Foreground()
	Preview(ctx context.Context, viewport entity.Viewport) (image.Image, error)
	History(ctx context.Context, limit int) ([]entity.ScoreRecord, error)
}

// Тексты, общие для front end.
const (
	NotAuthorizedText = "Please grant access to the camera for scanning faces."
	GrantAccessLabel  = "Grant Access"
	HistoryLimit      = 10
)
