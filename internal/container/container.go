package container

import (
	"time"

	"go.uber.org/zap"

	app "how-pretty/internal/application"
	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
	"how-pretty/internal/infrastructure/inference"
	"how-pretty/internal/infrastructure/permission"
	"how-pretty/internal/infrastructure/storage"
	"how-pretty/internal/infrastructure/storage/sqlite"
	"how-pretty/internal/infrastructure/vision"
)

// Options внешние части, которые собирает main.
type Options struct {
	Camera    port.CaptureSession
	Device    string // узел камеры для проверки прав доступа
	Model     port.Model
	Presenter port.Presenter
	Prompter  permission.Prompter
	UI        port.Dispatcher

	Scores  port.ScoreRepository
	Consent port.ConsentRepository

	StartOptions     entity.StartOptions
	InferenceTimeout time.Duration
	Logger           *zap.Logger
}

type Container struct {
	Gate    *app.PermissionGate
	Scoring *app.ScoringService
	App     *app.App
}

func New(opts Options) *Container {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	authorizer := permission.NewAuthorizer(opts.Device, opts.Consent, opts.Prompter, logger.Named("permission"))
	settings := permission.NewSettings(opts.Consent, logger.Named("settings"))
	gate := app.NewPermissionGate(authorizer, settings, opts.Presenter, opts.UI, logger.Named("gate"))

	scoring := app.NewScoringService(app.ScoringDeps{
		Camera:    opts.Camera,
		Prep:      vision.NewPreprocessor(),
		Engine:    inference.NewEngine(opts.InferenceTimeout),
		Model:     opts.Model,
		History:   opts.Scores,
		Presenter: opts.Presenter,
		UI:        opts.UI,
		Gate:      gate,
		Logger:    logger.Named("scoring"),
	})

	application := app.NewApp(gate, scoring, opts.Camera, opts.Model, opts.Presenter, opts.StartOptions, logger.Named("app"))

	return &Container{
		Gate:    gate,
		Scoring: scoring,
		App:     application,
	}
}

// Repositories хранилища истории и согласия.
type Repositories struct {
	Scores  port.ScoreRepository
	Consent port.ConsentRepository
	db      *sqlite.DB
}

// NewRepositories открывает SQLite по пути dbPath; пустой путь оставляет данные в памяти.
func NewRepositories(dbPath string) (*Repositories, error) {
	if dbPath == "" {
		return &Repositories{
			Scores:  storage.NewMemoryScoreRepository(),
			Consent: storage.NewMemoryConsentRepository(),
		}, nil
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Scores:  sqlite.NewScoreRepository(db),
		Consent: sqlite.NewConsentRepository(db),
		db:      db,
	}, nil
}

func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
