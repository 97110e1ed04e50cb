package port

import "how-pretty/internal/domain/entity"

// Authorizer доступ к разрешению на камеру
type Authorizer interface {
	// AuthorizationStatus возвращает текущее состояние
	AuthorizationStatus() entity.PermissionState

	// RequestAccess спрашивает пользователя; callback может прийти из любой горутины
	RequestAccess(callback func(granted bool))
}

// SettingsOpener даёт пользователю изменить решение вручную
type SettingsOpener interface {
	// Open вызывает done после того, как пользователь закончил с настройками
	Open(done func())
}
