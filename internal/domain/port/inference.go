package port

import (
	"context"

	"how-pretty/internal/domain/entity"
)

// Model загруженная модель
type Model interface {
	// InputShape объявленная форма входа
	InputShape() entity.Shape

	// OutputShape объявленная форма выхода
	OutputShape() entity.Shape

	// Run выполняет модель над плоским входом и возвращает плоский выход
	Run(input []float32) ([]float32, error)

	Close() error
}

// InferenceEngine запускает модель над тензором и возвращает оценку
type InferenceEngine interface {
	Infer(ctx context.Context, model Model, input entity.InputTensor) (float32, error)

	// Close ждёт завершения текущего вызова и закрывает модель
	Close(model Model) error
}
