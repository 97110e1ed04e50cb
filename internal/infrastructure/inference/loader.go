package inference

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

// Backend формат модели.
const (
	BackendONNX   = "onnx"
	BackendTFLite = "tflite"
)

// Config параметры загрузки модели.
type Config struct {
	Path          string
	Backend       string // пусто: по расширению файла
	InputName     string // пусто: имя из модели
	OutputName    string
	Threads       int
	SharedLibrary string // путь к libonnxruntime, пусто: системный
}

type opener func(cfg Config) (port.Model, error)

// Loader загружает модель один раз за время жизни процесса.
type Loader struct {
	cfg     Config
	openers map[string]opener

	once  sync.Once
	model port.Model
	err   error
}

// NewLoader создаёт загрузчик.
func NewLoader(cfg Config) *Loader {
	return &Loader{
		cfg: cfg,
		openers: map[string]opener{
			BackendONNX:   openONNX,
			BackendTFLite: openTFLite,
		},
	}
}

// Load возвращает модель; повторные вызовы возвращают тот же экземпляр или ту же ошибку.
func (l *Loader) Load() (port.Model, error) {
	l.once.Do(func() {
		l.model, l.err = l.load()
	})
	return l.model, l.err
}

func (l *Loader) load() (port.Model, error) {
	backend, err := l.backend()
	if err != nil {
		return nil, err
	}

	open, ok := l.openers[backend]
	if !ok {
		return nil, fmt.Errorf("unknown model backend %q", backend)
	}

	model, err := open(l.cfg)
	if err != nil {
		return nil, fmt.Errorf("load %s model %s: %w", backend, l.cfg.Path, err)
	}

	if !model.InputShape().Equal(entity.InputShape()) || !model.OutputShape().Equal(entity.OutputShape()) {
		model.Close()
		return nil, fmt.Errorf("%w: model declares input %s output %s, want %s and %s",
			entity.ErrFormatMismatch, model.InputShape(), model.OutputShape(), entity.InputShape(), entity.OutputShape())
	}

	return model, nil
}

func (l *Loader) backend() (string, error) {
	if l.cfg.Backend != "" {
		return strings.ToLower(l.cfg.Backend), nil
	}
	switch strings.ToLower(filepath.Ext(l.cfg.Path)) {
	case ".onnx":
		return BackendONNX, nil
	case ".tflite":
		return BackendTFLite, nil
	}
	return "", fmt.Errorf("cannot infer model backend from %q", l.cfg.Path)
}

// compatible сравнивает объявленные моделью размерности с ожидаемыми; -1 означает любой размер.
func compatible(declared []int64, want entity.Shape) bool {
	if len(declared) != len(want) {
		return false
	}
	for i, d := range declared {
		if d != -1 && d != want[i] {
			return false
		}
	}
	return true
}
