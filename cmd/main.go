package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"how-pretty/config"
	"how-pretty/internal/api/console"
	"how-pretty/internal/api/telegram"
	"how-pretty/internal/container"
	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
	"how-pretty/internal/infrastructure/inference"
	"how-pretty/internal/infrastructure/permission"
	"how-pretty/internal/infrastructure/vision"
	"how-pretty/internal/logging"
	"how-pretty/internal/mainloop"
)

// frontend общий интерфейс терминала и Telegram-бота.
type frontend interface {
	port.Presenter
	permission.Prompter
	Run(ctx context.Context) error
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Printf("Failed to create logger: %v", err)
		return 1
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loop := mainloop.New()

	// Выбираем front end
	var (
		front frontend
		bind  func(ctrl *container.Container)
	)
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, loop, logger.Named("telegram"))
		if err != nil {
			logger.Error("failed to create bot", zap.Error(err))
			return 1
		}
		front = bot
		bind = func(c *container.Container) { bot.Bind(c.App) }
	} else {
		term := console.New(os.Stdin, os.Stdout, loop)
		front = term
		bind = func(c *container.Container) { term.Bind(c.App, cancel) }
	}

	prompter, err := permission.NewPrompter(cfg.CameraConsent, front)
	if err != nil {
		logger.Error("invalid consent mode", zap.Error(err))
		return 1
	}

	// Модель загружается один раз до запуска интерфейса
	model, err := inference.NewLoader(inference.Config{
		Path:          cfg.ModelPath,
		Backend:       cfg.ModelBackend,
		InputName:     cfg.ModelInputName,
		OutputName:    cfg.ModelOutputName,
		Threads:       cfg.ModelThreads,
		SharedLibrary: cfg.OnnxRuntimeLibrary,
	}).Load()
	if err != nil {
		logger.Error("failed to load model", zap.String("path", cfg.ModelPath), zap.Error(err))
		return 1
	}

	repos, err := container.NewRepositories(cfg.HistoryDB)
	if err != nil {
		model.Close()
		logger.Error("failed to open history", zap.String("path", cfg.HistoryDB), zap.Error(err))
		return 1
	}
	defer repos.Close()

	devices := vision.Devices{
		entity.FacingFront: cfg.CameraFront,
		entity.FacingBack:  cfg.CameraBack,
	}

	appContainer := container.New(container.Options{
		Camera:    vision.NewCamera(devices, logger.Named("camera")),
		Device:    devices.Path(cfg.CameraFacing),
		Model:     model,
		Presenter: front,
		Prompter:  prompter,
		UI:        loop,
		Scores:    repos.Scores,
		Consent:   repos.Consent,
		StartOptions: entity.StartOptions{
			Facing:     cfg.CameraFacing,
			Resolution: cfg.CameraResolution,
		},
		InferenceTimeout: cfg.InferenceTimeout,
		Logger:           logger,
	})
	defer func() {
		if err := appContainer.App.Close(); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()
	bind(appContainer)

	exitCode := 0
	loop.Post(func() {
		if err := appContainer.App.Start(ctx); err != nil {
			logger.Error("startup failed", zap.Error(err))
			exitCode = 1
			cancel()
		}
	})

	go func() {
		if err := front.Run(ctx); err != nil {
			logger.Error("front end stopped", zap.Error(err))
		}
		cancel()
	}()

	logger.Info("how-pretty is running",
		zap.String("model", cfg.ModelPath),
		zap.String("facing", string(cfg.CameraFacing)),
		zap.Bool("telegram", cfg.TelegramToken != ""),
	)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("ui loop", zap.Error(err))
		return 1
	}
	return exitCode
}
