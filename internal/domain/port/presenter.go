package port

// Presenter показывает пользователю результат
type Presenter interface {
	// Show показывает закрываемое окно с кнопкой OK
	Show(title, message string)

	// ShowNotAuthorized показывает постоянный призыв выдать доступ к камере
	ShowNotAuthorized()
}

// Dispatcher передаёт функцию в горутину, владеющую интерфейсом
type Dispatcher interface {
	Post(fn func())
}
