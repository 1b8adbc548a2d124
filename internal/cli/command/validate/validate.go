package validate

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/SolanaRemix/terminal/internal/commands"
	"github.com/SolanaRemix/terminal/internal/config"
	"github.com/SolanaRemix/terminal/internal/i18n"
	"github.com/SolanaRemix/terminal/internal/logger"
	"github.com/SolanaRemix/terminal/internal/models"
	"github.com/SolanaRemix/terminal/internal/ui"
)

type ValidateCommand struct{}

func NewValidateCommand() *ValidateCommand {
	return &ValidateCommand{}
}

func (v *ValidateCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: t.GetMessage("validate_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := cmd.Root().Writer
			results := Run(cfg, t)
			failed := Print(out, t, results)
			for _, w := range cfg.Warnings() {
				ui.PrintAppWarning(out, w)
			}
			if failed > 0 {
				return cli.Exit(t.GetMessage("validate_failed", failed, map[string]interface{}{
					"Count": failed,
				}), 1)
			}
			return nil
		},
	}
}

type check func(cfg *config.Config, t *i18n.Translations) models.ValidationItem

// Run evaluates the configuration and the command table.
func Run(cfg *config.Config, t *i18n.Translations) []models.ValidationResult {
	configuration := models.ValidationResult{Category: t.GetMessage("validate_configuration", 0, nil)}
	for _, c := range []check{checkToken, checkSecret, checkPort, checkTimeout, checkLanguage, checkAPIURL, checkLogging} {
		configuration.Items = append(configuration.Items, c(cfg, t))
	}

	return []models.ValidationResult{configuration, checkCommands(t)}
}

// Print writes the results and returns how many checks failed.
func Print(w io.Writer, t *i18n.Translations, results []models.ValidationResult) int {
	ui.PrintSectionBanner(w, t.GetMessage("validate_title", 0, nil))

	total, passed := 0, 0
	for _, result := range results {
		_, _ = fmt.Fprintln(w, ui.Info.Sprint(result.Category))
		for _, item := range result.Items {
			ui.PrintCheck(w, item.Passed, item.Name, item.Message)
		}
		_, _ = fmt.Fprintln(w)
		total += len(result.Items)
		passed += result.Passed()
	}

	_, _ = fmt.Fprintln(w, t.GetMessage("validate_summary", 0, map[string]interface{}{
		"Passed": passed,
		"Total":  total,
	}))
	if passed == total {
		ui.PrintSuccess(w, t.GetMessage("validate_all_passed", 0, nil))
	}
	return total - passed
}

func item(t *i18n.Translations, nameID string, passed bool, message string) models.ValidationItem {
	return models.ValidationItem{
		Name:    t.GetMessage(nameID, 0, nil),
		Passed:  passed,
		Message: message,
	}
}

func checkToken(cfg *config.Config, t *i18n.Translations) models.ValidationItem {
	if cfg.GitHubToken == "" {
		return item(t, "check_token", false, t.GetMessage("check_missing", 0, nil))
	}
	return item(t, "check_token", true, t.GetMessage("check_set", 0, nil))
}

func checkSecret(cfg *config.Config, t *i18n.Translations) models.ValidationItem {
	switch cfg.WebhookSecret {
	case "":
		return item(t, "check_secret", false, t.GetMessage("check_missing", 0, nil))
	case config.DefaultWebhookSecret:
		return item(t, "check_secret", false, t.GetMessage("check_default_secret", 0, nil))
	}
	return item(t, "check_secret", true, t.GetMessage("check_set", 0, nil))
}

func checkPort(cfg *config.Config, t *i18n.Translations) models.ValidationItem {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return item(t, "check_port", false, fmt.Sprintf("%d", cfg.Port))
	}
	return item(t, "check_port", true, fmt.Sprintf("%d", cfg.Port))
}

func checkTimeout(cfg *config.Config, t *i18n.Translations) models.ValidationItem {
	return item(t, "check_timeout", cfg.HandlerTimeout > 0, cfg.HandlerTimeout.String())
}

func checkLanguage(cfg *config.Config, t *i18n.Translations) models.ValidationItem {
	for _, lang := range t.Languages() {
		if lang == cfg.Language {
			return item(t, "check_language", true, lang)
		}
	}
	return item(t, "check_language", false, t.GetMessage("check_unsupported", 0, map[string]interface{}{
		"Languages": strings.Join(t.Languages(), ", "),
	}))
}

func checkAPIURL(cfg *config.Config, t *i18n.Translations) models.ValidationItem {
	if cfg.APIBaseURL == "" {
		return item(t, "check_api_url", true, t.GetMessage("check_not_configured", 0, nil))
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return item(t, "check_api_url", false, cfg.APIBaseURL)
	}
	return item(t, "check_api_url", true, cfg.APIBaseURL)
}

func checkLogging(cfg *config.Config, t *i18n.Translations) models.ValidationItem {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return item(t, "check_logging", false, err.Error())
	}
	if _, err := logger.NewHandler(io.Discard, level, cfg.LogFormat); err != nil {
		return item(t, "check_logging", false, err.Error())
	}
	return item(t, "check_logging", true, cfg.LogLevel+" / "+cfg.LogFormat)
}

// checkCommands verifies every command has a handler, a catalogue entry and
// its replies in each shipped language.
func checkCommands(t *i18n.Translations) models.ValidationResult {
	result := models.ValidationResult{Category: t.GetMessage("validate_commands", 0, nil)}
	router := commands.NewRouter(nil, t)

	for _, k := range commands.AllKinds() {
		data := map[string]interface{}{"Command": k.String()}

		result.Items = append(result.Items, models.ValidationItem{
			Name:   t.GetMessage("check_handler", 0, data),
			Passed: router.Handles(k),
		})

		var missingDesc []string
		for _, lang := range t.Languages() {
			if !t.HasMessage(lang, k.DescriptionID()) {
				missingDesc = append(missingDesc, lang)
			}
		}
		result.Items = append(result.Items, missingItem(t, "check_help_entry", data, missingDesc))

		for _, lang := range t.Languages() {
			var missing []string
			for _, id := range commands.ReplyIDs(k) {
				if !t.HasMessage(lang, id) {
					missing = append(missing, id)
				}
			}
			result.Items = append(result.Items, missingItem(t, "check_replies", map[string]interface{}{
				"Command":  k.String(),
				"Language": lang,
			}, missing))
		}
	}
	return result
}

func missingItem(t *i18n.Translations, nameID string, data map[string]interface{}, missing []string) models.ValidationItem {
	it := models.ValidationItem{
		Name:   t.GetMessage(nameID, 0, data),
		Passed: len(missing) == 0,
	}
	if !it.Passed {
		it.Message = t.GetMessage("check_missing_messages", 0, map[string]interface{}{
			"Messages": strings.Join(missing, ", "),
		})
	}
	return it
}
