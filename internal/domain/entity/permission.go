package entity

// PermissionState состояние доступа к камере на уровне ОС
type PermissionState string

const (
	PermissionAuthorized   PermissionState = "authorized"
	PermissionDenied       PermissionState = "denied"
	PermissionRestricted   PermissionState = "restricted"
	PermissionUndetermined PermissionState = "undetermined"
)

// Consent сохранённое решение пользователя
type Consent string

const (
	ConsentUnknown Consent = "unknown"
	ConsentGranted Consent = "granted"
	ConsentDenied  Consent = "denied"
)
