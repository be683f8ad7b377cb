package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hazadus/soundwave/internal/audio"
	"github.com/hazadus/soundwave/internal/audio/beep"
	"github.com/hazadus/soundwave/internal/config"
	"github.com/hazadus/soundwave/internal/data"
	"github.com/hazadus/soundwave/internal/likes"
	"github.com/hazadus/soundwave/internal/logger"
	"github.com/hazadus/soundwave/internal/player"
	"github.com/hazadus/soundwave/internal/s3"
	"github.com/hazadus/soundwave/internal/track"
)

const (
	defaultConfigPath = "~/.soundwave"
)

// Application хранит зависимости, общие для всех команд
type Application struct {
	Config  *config.Config
	Catalog *data.Catalog
	Manager *track.Manager
	Logger  *zap.Logger

	// Backend создается при первом обращении, если не задан
	Backend audio.Backend
	// Input - источник нажатий клавиш для команды play
	Input io.Reader
}

// NewApplication создает приложение. Лайки живут только в памяти процесса.
func NewApplication(cfg *config.Config, catalog *data.Catalog, log *zap.Logger) *Application {
	return &Application{
		Config:  cfg,
		Catalog: catalog,
		Manager: track.NewManager(catalog, likes.NewRegistry()),
		Logger:  log,
		Input:   os.Stdin,
	}
}

// backend возвращает аудиобэкенд, при необходимости создавая beep-бэкенд
func (app *Application) backend() (audio.Backend, error) {
	if app.Backend != nil {
		return app.Backend, nil
	}

	opts := []beep.Option{
		beep.WithMediaDir(app.Config.MediaDir),
		beep.WithLogger(app.Logger.Named("audio")),
	}
	if app.Config.HasS3() {
		presigner, err := s3.NewPresigner(&s3.Config{
			Region:    app.Config.AwsRegion,
			AccessKey: app.Config.AwsAccessKey,
			SecretKey: app.Config.AwsSecretKey,
			Endpoint:  app.Config.AwsEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("ошибка настройки S3: %w", err)
		}
		opts = append(opts, beep.WithPresigner(presigner))
	}

	app.Backend = beep.NewBackend(opts...)
	return app.Backend, nil
}

// newSession создает сессию воспроизведения с настройками из конфигурации
func (app *Application) newSession() (*player.Session, error) {
	backend, err := app.backend()
	if err != nil {
		return nil, err
	}
	return player.NewSession(app.Catalog, backend,
		player.WithVolume(app.Config.DefaultVolume),
		player.WithEventBuffer(app.Config.EventBuffer),
		player.WithLogger(app.Logger.Named("session")),
	), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig(defaultConfigPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// stdout занят интерфейсом, поэтому логи пишутся только в файл
	if err := logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}); err != nil {
		return fmt.Errorf("ошибка инициализации логгера: %w", err)
	}
	defer logger.Sync()

	catalog, err := data.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки каталога: %w", err)
	}
	logger.Info("каталог загружен",
		logger.String("file", cfg.CatalogFile), logger.Int("tracks", catalog.Len()))

	app := NewApplication(cfg, catalog, logger.L())
	return app.createRootCommand(ctx).ExecuteContext(ctx)
}
