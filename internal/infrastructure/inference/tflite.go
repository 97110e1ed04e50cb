//go:build tflite
// +build tflite

package inference

import (
	"errors"
	"fmt"

	"github.com/mattn/go-tflite"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

type tfliteModel struct {
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
	inputShape  entity.Shape
	outputShape entity.Shape
}

func openTFLite(cfg Config) (port.Model, error) {
	model := tflite.NewModelFromFile(cfg.Path)
	if model == nil {
		return nil, errors.New("cannot load model file")
	}

	options := tflite.NewInterpreterOptions()
	if cfg.Threads > 0 {
		options.SetNumThread(cfg.Threads)
	}

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		options.Delete()
		model.Delete()
		return nil, errors.New("cannot create interpreter")
	}

	m := &tfliteModel{
		model:       model,
		options:     options,
		interpreter: interpreter,
		inputShape:  entity.InputShape(),
		outputShape: entity.OutputShape(),
	}

	if status := interpreter.AllocateTensors(); status != tflite.OK {
		m.Close()
		return nil, fmt.Errorf("allocate tensors: status %v", status)
	}

	if interpreter.GetInputTensorCount() != 1 || interpreter.GetOutputTensorCount() != 1 {
		m.Close()
		return nil, fmt.Errorf("%w: model has %d inputs and %d outputs", entity.ErrFormatMismatch,
			interpreter.GetInputTensorCount(), interpreter.GetOutputTensorCount())
	}

	if err := checkTensor(interpreter.GetInputTensor(0), m.inputShape); err != nil {
		m.Close()
		return nil, fmt.Errorf("model input: %w", err)
	}
	if err := checkTensor(interpreter.GetOutputTensor(0), m.outputShape); err != nil {
		m.Close()
		return nil, fmt.Errorf("model output: %w", err)
	}

	return m, nil
}

func checkTensor(t *tflite.Tensor, want entity.Shape) error {
	if t.Type() != tflite.Float32 {
		return fmt.Errorf("%w: tensor type %v, want float32", entity.ErrFormatMismatch, t.Type())
	}
	dims := make([]int64, t.NumDims())
	for i := range dims {
		dims[i] = int64(t.Dim(i))
	}
	if !compatible(dims, want) {
		return fmt.Errorf("%w: dims %v, want %s", entity.ErrFormatMismatch, dims, want)
	}
	return nil
}

func (m *tfliteModel) InputShape() entity.Shape  { return m.inputShape }
func (m *tfliteModel) OutputShape() entity.Shape { return m.outputShape }

func (m *tfliteModel) Run(input []float32) ([]float32, error) {
	copy(m.interpreter.GetInputTensor(0).Float32s(), input)

	if status := m.interpreter.Invoke(); status != tflite.OK {
		return nil, fmt.Errorf("invoke: status %v", status)
	}

	out := m.interpreter.GetOutputTensor(0).Float32s()
	values := make([]float32, len(out))
	copy(values, out)
	return values, nil
}

func (m *tfliteModel) Close() error {
	if m.interpreter != nil {
		m.interpreter.Delete()
	}
	if m.options != nil {
		m.options.Delete()
	}
	if m.model != nil {
		m.model.Delete()
	}
	return nil
}
