package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	domainErrors "github.com/SolanaRemix/terminal/internal/errors"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	TerminalEmoji = "🧪"
	SuccessEmoji  = Success.Sprint("✅")
	WarningEmoji  = Warning.Sprint("⚠️")
)

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintSectionBanner(w io.Writer, title string) {
	separator := color.New(color.FgCyan).Sprint("━━━━━━━━━━━━━━━━━━━━━━━")
	_, _ = fmt.Fprintf(w, "\n%s\n", separator)
	_, _ = fmt.Fprintf(w, "%s %s\n", TerminalEmoji, Accent.Sprint(title))
	_, _ = fmt.Fprintf(w, "%s\n\n", separator)
}

// PrintCheck prints one validation line, e.g. "  ✓ WEBHOOK_SECRET: set".
func PrintCheck(w io.Writer, passed bool, name, message string) {
	mark := Success.Sprint("✓")
	if !passed {
		mark = Error.Sprint("✗")
	}
	if message == "" {
		_, _ = fmt.Fprintf(w, "  %s %s\n", mark, name)
		return
	}
	_, _ = fmt.Fprintf(w, "  %s %s: %s\n", mark, name, Dim.Sprint(message))
}

// PrintAppError prints err and, when it is an AppError, its suggestion.
func PrintAppError(w io.Writer, err error) {
	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		PrintError(w, err.Error())
		return
	}

	PrintError(w, appErr.Message)
	if appErr.Suggestion != "" {
		_, _ = fmt.Fprintf(w, "   %s %s\n", Info.Sprint("💡"), appErr.Suggestion)
	}
}

// PrintAppWarning is PrintAppError at warning level.
func PrintAppWarning(w io.Writer, appErr *domainErrors.AppError) {
	PrintWarning(w, appErr.Message)
	if appErr.Suggestion != "" {
		_, _ = fmt.Fprintf(w, "   %s %s\n", Info.Sprint("💡"), appErr.Suggestion)
	}
}
