package inference

import (
	"fmt"
	"os"

	ort "github.com/yalue/onnxruntime_go"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// Окружение onnxruntime; в тестах подменяется.
var (
	ortInitialized = ort.IsInitialized
	ortInitialize  = ort.InitializeEnvironment
	ortDestroy     = ort.DestroyEnvironment
	ortIOInfo      = ort.GetInputOutputInfo
)

type onnxModel struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	inputShape   entity.Shape
	outputShape  entity.Shape
}

func openONNX(cfg Config) (port.Model, error) {
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	owned := false
	if !ortInitialized() {
		if cfg.SharedLibrary != "" {
			ort.SetSharedLibraryPath(cfg.SharedLibrary)
		}
		if err := ortInitialize(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
		owned = true
	}

	model, err := newONNXModel(cfg)
	if err != nil {
		if owned {
			_ = ortDestroy()
		}
		return nil, err
	}
	return model, nil
}

func newONNXModel(cfg Config) (*onnxModel, error) {
	inputs, outputs, err := ortIOInfo(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("read model io info: %w", err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("%w: model has %d inputs and %d outputs", entity.ErrFormatMismatch, len(inputs), len(outputs))
	}

	inShape, outShape := entity.InputShape(), entity.OutputShape()
	if !compatible(inputs[0].Dimensions, inShape) {
		return nil, fmt.Errorf("%w: model input %v", entity.ErrFormatMismatch, inputs[0].Dimensions)
	}
	if !compatible(outputs[0].Dimensions, outShape) {
		return nil, fmt.Errorf("%w: model output %v", entity.ErrFormatMismatch, outputs[0].Dimensions)
	}

	inputName, outputName := cfg.InputName, cfg.OutputName
	if inputName == "" {
		inputName = inputs[0].Name
	}
	if outputName == "" {
		outputName = outputs[0].Name
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(inShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(outShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	m := &onnxModel{
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		inputShape:   inShape,
		outputShape:  outShape,
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		m.destroy()
		return nil, fmt.Errorf("session options: %w", err)
	}
	defer opts.Destroy()
	if cfg.Threads > 0 {
		if err := opts.SetIntraOpNumThreads(cfg.Threads); err != nil {
			m.destroy()
			return nil, fmt.Errorf("session options: intra-op threads: %w", err)
		}
	}

	session, err := ort.NewAdvancedSession(cfg.Path,
		[]string{inputName}, []string{outputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		opts)
	if err != nil {
		m.destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}
	m.session = session

	return m, nil
}

func (m *onnxModel) InputShape() entity.Shape  { return m.inputShape }
func (m *onnxModel) OutputShape() entity.Shape { return m.outputShape }

func (m *onnxModel) Run(input []float32) ([]float32, error) {
	copy(m.inputTensor.GetData(), input)

	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := m.outputTensor.GetData()
	values := make([]float32, len(out))
	copy(values, out)
	return values, nil
}

func (m *onnxModel) Close() error {
	m.destroy()
	return ortDestroy()
}

// destroy освобождает сессию и тензоры, окружение не трогает.
func (m *onnxModel) destroy() {
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	if m.inputTensor != nil {
		m.inputTensor.Destroy()
		m.inputTensor = nil
	}
	if m.outputTensor != nil {
		m.outputTensor.Destroy()
		m.outputTensor = nil
	}
}
