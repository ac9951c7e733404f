package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/javelin/internal/build"
	"github.com/specialistvlad/javelin/internal/ctxlog"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	src, err := a.loader.Load(ctx, appConfig.ScriptPath)
	if err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}
	a.logger.Debug("Source loaded.", "file", src.Ref().File)

	bctx := build.NewContext(build.Options{
		Fresh:          appConfig.Fresh,
		Native:         appConfig.Native,
		ForcedMain:     appConfig.MainClass,
		JavaVersion:    appConfig.JavaVersion,
		ExtraDeps:      appConfig.ExtraDeps,
		RuntimeOptions: a.settings.RuntimeOptions,
		Properties:     a.settings.Properties,
	})

	result, err := a.builder.BuildIfNeeded(ctx, src, bctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if result.Reused {
		a.logger.Info("Artifact up to date.", "jar", result.JarFile)
	} else {
		a.logger.Info("Artifact built.", "jar", result.JarFile)
	}
	if result.ImageFile != "" {
		a.logger.Info("Native image built.", "image", result.ImageFile)
	}

	fmt.Fprintln(a.outW, result.JarFile)
	a.logger.Debug("App.Run method finished.")
	return nil
}
