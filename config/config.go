package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"how-pretty/internal/domain/entity"
)

type Config struct {
	ModelPath          string `validate:"required"`
	ModelBackend       string `validate:"omitempty,oneof=onnx tflite"`
	ModelInputName     string
	ModelOutputName    string
	ModelThreads       int `validate:"gte=0"`
	OnnxRuntimeLibrary string
	InferenceTimeout   time.Duration

	CameraFacing     entity.Facing `validate:"oneof=front back"`
	CameraFront      string
	CameraBack       string
	CameraResolution entity.Resolution
	CameraConsent    string `validate:"oneof=ask grant deny"`

	HistoryDB     string
	TelegramToken string
	LogLevel      string `validate:"oneof=debug info warn error"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	facing, err := entity.ParseFacing(getEnv("CAMERA_FACING", string(entity.FacingFront)))
	if err != nil {
		return nil, err
	}

	resolution, err := entity.ParseResolution(getEnv("CAMERA_RESOLUTION", "1280x720"))
	if err != nil {
		return nil, err
	}

	threads, err := getEnvAsInt("MODEL_THREADS", 0)
	if err != nil {
		return nil, err
	}

	timeout, err := getEnvAsDuration("INFERENCE_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ModelPath:          getEnv("MODEL_PATH", "models/model.onnx"),
		ModelBackend:       strings.ToLower(os.Getenv("MODEL_BACKEND")),
		ModelInputName:     os.Getenv("MODEL_INPUT_NAME"),
		ModelOutputName:    os.Getenv("MODEL_OUTPUT_NAME"),
		ModelThreads:       threads,
		OnnxRuntimeLibrary: os.Getenv("ONNXRUNTIME_LIB"),
		InferenceTimeout:   timeout,

		CameraFacing:     facing,
		CameraFront:      getEnv("CAMERA_FRONT", "0"),
		CameraBack:       os.Getenv("CAMERA_BACK"),
		CameraResolution: resolution,
		CameraConsent:    strings.ToLower(getEnv("CAMERA_CONSENT", "ask")),

		HistoryDB:     os.Getenv("HISTORY_DB"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid non-negative integer %q", key, value)
	}
	return n, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return d, nil
}
