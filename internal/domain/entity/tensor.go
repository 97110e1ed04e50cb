package entity

import "fmt"

// Размеры входа модели.
const (
	TensorSide     = 150
	TensorChannels = 3
	TensorLength   = TensorSide * TensorSide * TensorChannels
)

// Shape логическая форма тензора.
type Shape []int64

// InputShape форма входа модели [1,150,150,3].
func InputShape() Shape { return Shape{1, TensorSide, TensorSide, TensorChannels} }

// OutputShape форма выхода модели [1,1].
func OutputShape() Shape { return Shape{1, 1} }

// Size возвращает число элементов.
func (s Shape) Size() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, d := range s {
		n *= int(d)
	}
	return n
}

// Equal сравнивает формы поэлементно.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func (s Shape) String() string { return fmt.Sprint([]int64(s)) }

// InputTensor плоский буфер float32 с логической формой. После создания не меняется.
type InputTensor struct {
	data  []float32
	shape Shape
}

// NewInputTensor копирует данные и проверяет, что их длина совпадает с формой.
func NewInputTensor(data []float32, shape Shape) (InputTensor, error) {
	if len(data) != shape.Size() {
		return InputTensor{}, fmt.Errorf("%w: %d values for shape %s", ErrFormatMismatch, len(data), shape)
	}
	buf := make([]float32, len(data))
	copy(buf, data)
	sh := make(Shape, len(shape))
	copy(sh, shape)
	return InputTensor{data: buf, shape: sh}, nil
}

// Len возвращает число значений.
func (t InputTensor) Len() int { return len(t.data) }

// Shape возвращает копию формы.
func (t InputTensor) Shape() Shape {
	sh := make(Shape, len(t.shape))
	copy(sh, t.shape)
	return sh
}

// At возвращает i-е значение.
func (t InputTensor) At(i int) float32 { return t.data[i] }

// CopyTo копирует значения в dst и возвращает число скопированных.
func (t InputTensor) CopyTo(dst []float32) int { return copy(dst, t.data) }

// Values возвращает копию значений.
func (t InputTensor) Values() []float32 {
	buf := make([]float32, len(t.data))
	copy(buf, t.data)
	return buf
}
