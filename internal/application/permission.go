package app

import (
	"sync/atomic"

	"go.uber.org/zap"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// PermissionGate проверяет доступ к камере и показывает призыв выдать его.
type PermissionGate struct {
	auth     port.Authorizer
	settings port.SettingsOpener
	view     port.Presenter
	ui       port.Dispatcher
	logger   *zap.Logger

	requesting atomic.Bool
}

// NewPermissionGate создаёт гейт.
func NewPermissionGate(auth port.Authorizer, settings port.SettingsOpener, view port.Presenter, ui port.Dispatcher, logger *zap.Logger) *PermissionGate {
	return &PermissionGate{
		auth:     auth,
		settings: settings,
		view:     view,
		ui:       ui,
		logger:   logger,
	}
}

// Check проверяет состояние доступа. Можно вызывать сколько угодно раз и из разных горутин:
// пока запрос согласия не завершён, повторный не отправляется.
func (g *PermissionGate) Check() {
	state := g.auth.AuthorizationStatus()
	g.logger.Debug("camera permission checked", zap.String("state", string(state)))

	switch state {
	case entity.PermissionDenied, entity.PermissionRestricted:
		g.view.ShowNotAuthorized()

	case entity.PermissionUndetermined:
		if !g.requesting.CompareAndSwap(false, true) {
			return
		}
		g.auth.RequestAccess(func(granted bool) {
			g.requesting.Store(false)
			if granted {
				return
			}
			// callback приходит не из горутины интерфейса
			g.ui.Post(g.view.ShowNotAuthorized)
		})
	}
}

// Authorized сообщает, разрешён ли доступ прямо сейчас.
func (g *PermissionGate) Authorized() bool {
	return g.Status() == entity.PermissionAuthorized
}

// Status текущее состояние доступа.
func (g *PermissionGate) Status() entity.PermissionState {
	return g.auth.AuthorizationStatus()
}

// OpenSettings даёт пользователю изменить решение и затем проверяет доступ заново.
func (g *PermissionGate) OpenSettings() {
	g.settings.Open(func() {
		g.ui.Post(g.Check)
	})
}
