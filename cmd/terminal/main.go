package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/SolanaRemix/terminal/internal/cli/command/catalog"
	"github.com/SolanaRemix/terminal/internal/cli/command/serve"
	"github.com/SolanaRemix/terminal/internal/cli/command/validate"
	versioncmd "github.com/SolanaRemix/terminal/internal/cli/command/version"
	"github.com/SolanaRemix/terminal/internal/cli/registry"
	cfg "github.com/SolanaRemix/terminal/internal/config"
	"github.com/SolanaRemix/terminal/internal/i18n"
	"github.com/SolanaRemix/terminal/internal/logger"
	"github.com/SolanaRemix/terminal/internal/ui"
	"github.com/SolanaRemix/terminal/internal/version"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		ui.PrintAppError(os.Stderr, err)
		os.Exit(1)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func initializeApp() (*cli.Command, error) {
	cfgApp, err := cfg.Load()
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(cfgApp.LogLevel, cfgApp.LogFormat); err != nil {
		log.Printf("Warning: invalid logging configuration, using defaults: %v", err)
		_ = logger.Initialize("info", logger.FormatText)
	}

	translations, err := i18n.NewTranslations(cfgApp.Language, cfgApp.LocalesDir)
	if err != nil {
		log.Printf("Warning: could not load language %q, falling back to English: %v", cfgApp.Language, err)
		translations, err = i18n.NewTranslations("en", cfgApp.LocalesDir)
		if err != nil {
			return nil, err
		}
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)

	if err := registerCommand.Register("serve", serve.NewServeCommand()); err != nil {
		log.Fatalf("Error registering command 'serve': %v", err)
	}

	if err := registerCommand.Register("commands", catalog.NewCommandsCommand()); err != nil {
		log.Fatalf("Error registering command 'commands': %v", err)
	}

	if err := registerCommand.Register("validate", validate.NewValidateCommand()); err != nil {
		log.Fatalf("Error registering command 'validate': %v", err)
	}

	if err := registerCommand.Register("version", versioncmd.NewVersionCommand()); err != nil {
		log.Fatalf("Error registering command 'version': %v", err)
	}

	return &cli.Command{
		Name:           "terminal",
		Usage:          translations.GetMessage("app_usage", 0, nil),
		Version:        version.Version,
		DefaultCommand: "serve",
		Commands:       registerCommand.CreateCommands(),
	}, nil
}
