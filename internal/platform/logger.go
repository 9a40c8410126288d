package platform

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// NewLogger builds the CLI logger: tinted text on stderr, colours only on a terminal.
func NewLogger(verbose bool) *slog.Logger {
	noColor := !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())
	return newLogger(colorable.NewColorable(os.Stderr), verbose, noColor)
}

func newLogger(w io.Writer, verbose, noColor bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Empty strings only add noise to reconciliation traces.
			if a.Value.Kind() == slog.KindString && a.Value.String() == "" && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}
