package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/javelin/internal/build"
	"github.com/specialistvlad/javelin/internal/ctxlog"
	"github.com/specialistvlad/javelin/internal/deps"
	"github.com/specialistvlad/javelin/internal/integration"
	"github.com/specialistvlad/javelin/internal/jdk"
	"github.com/specialistvlad/javelin/internal/settings"
	"github.com/specialistvlad/javelin/internal/source"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	settings *settings.Settings
	loader   *source.Loader
	builder  *build.Builder
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, loaded settings,
// and wired build collaborators.
func NewApp(outW io.Writer, appConfig *Config) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfg, err := settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Settings loaded.", "config_dir", cfg.ConfigDir())

	urlCache, err := cfg.Cache(settings.CacheURLs)
	if err != nil {
		return nil, err
	}
	loader := &source.Loader{
		URLCache: urlCache,
		Client:   http.DefaultClient,
		Replace:  cfg.PropertyReplacer(),
	}

	jdksDir, err := cfg.Cache(settings.CacheJdks)
	if err != nil {
		return nil, err
	}

	resolver, err := deps.NewLocalResolver()
	if err != nil {
		return nil, err
	}

	var hook integration.Manager = integration.Noop{}
	if cfg.IntegrationCmd != "" {
		hook = &integration.ExecManager{Command: cfg.IntegrationCmd}
	}

	builder := &build.Builder{
		Jdks:        jdk.NewManager(jdksDir),
		Resolver:    resolver,
		Integration: hook,
		Settings:    cfg,
	}

	return &App{
		outW:     outW,
		logger:   logger,
		settings: cfg,
		loader:   loader,
		builder:  builder,
	}, nil
}

// Settings returns the loaded settings. This is primarily for testing.
func (a *App) Settings() *settings.Settings {
	return a.settings
}
