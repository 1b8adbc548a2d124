package serve

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/SolanaRemix/terminal/internal/commands"
	"github.com/SolanaRemix/terminal/internal/config"
	"github.com/SolanaRemix/terminal/internal/i18n"
	"github.com/SolanaRemix/terminal/internal/logger"
	"github.com/SolanaRemix/terminal/internal/vcs"
	"github.com/SolanaRemix/terminal/internal/vcs/github"
	"github.com/SolanaRemix/terminal/internal/webhook"
)

// ClientFactory builds the GitHub capability shared by every delivery.
type ClientFactory func(cfg *config.Config) (vcs.Client, error)

type ServeCommand struct {
	newClient ClientFactory
}

func NewServeCommand() *ServeCommand {
	return &ServeCommand{newClient: newGitHubClient}
}

// NewServeCommandWithClient is NewServeCommand with a custom client factory.
func NewServeCommandWithClient(factory ClientFactory) *ServeCommand {
	return &ServeCommand{newClient: factory}
}

func newGitHubClient(cfg *config.Config) (vcs.Client, error) {
	client, err := github.NewGitHubClient(cfg.GitHubToken, cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ServeCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: t.GetMessage("serve_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "listen port (overrides PORT)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.IsSet("port") {
				cfg.Port = cmd.Int("port")
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			handler, err := s.Handler(ctx, cfg, t)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return webhook.NewServer(cfg.Addr(), handler).Run(ctx)
		},
	}
}

// Handler wires the GitHub client, command router and webhook receiver into
// the HTTP handler served on cfg.Addr().
func (s *ServeCommand) Handler(ctx context.Context, cfg *config.Config, t *i18n.Translations) (http.Handler, error) {
	for _, w := range cfg.Warnings() {
		logger.Warn(ctx, w.Message, "suggestion", w.Suggestion)
	}

	client, err := s.newClient(cfg)
	if err != nil {
		return nil, err
	}

	router := commands.NewRouter(client, t,
		commands.WithTimeout(cfg.HandlerTimeout),
		commands.WithDefaultBranch(cfg.DefaultBranch),
	)
	logger.Info(ctx, "command router ready",
		"commands", len(commands.AllKinds()),
		"language", t.Language(),
		"timeout", cfg.HandlerTimeout,
		"default_branch", cfg.DefaultBranch,
	)

	return webhook.NewRouter(webhook.NewReceiver(cfg.WebhookSecret, router)), nil
}
