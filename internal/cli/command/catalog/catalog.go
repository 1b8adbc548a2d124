package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/SolanaRemix/terminal/internal/commands"
	"github.com/SolanaRemix/terminal/internal/config"
	"github.com/SolanaRemix/terminal/internal/i18n"
	"github.com/SolanaRemix/terminal/internal/ui"
)

var sections = []commands.Section{
	commands.SectionCore,
	commands.SectionAdvanced,
	commands.SectionEcosystem,
}

type CommandsCommand struct{}

func NewCommandsCommand() *CommandsCommand {
	return &CommandsCommand{}
}

func (c *CommandsCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "commands",
		Aliases: []string{"ls"},
		Usage:   t.GetMessage("commands_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			PrintCatalogue(cmd.Root().Writer, t)
			return nil
		},
	}
}

// PrintCatalogue lists every slash command grouped by section.
func PrintCatalogue(w io.Writer, t *i18n.Translations) {
	ui.PrintSectionBanner(w, t.GetMessage("commands_title", 0, nil))

	for i, section := range sections {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, ui.Info.Sprint(t.GetMessage("section_"+string(section), 0, nil)))
		for _, k := range commands.AllKinds() {
			if k.Section() != section {
				continue
			}
			_, _ = fmt.Fprintf(w, "  /terminal %-20s - %s\n", k.DisplayName(), t.GetMessage(k.DescriptionID(), 0, nil))
		}
	}
}
