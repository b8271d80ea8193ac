package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/tuanvumaihuynh/retail-pos/internal/config"
)

// errorColor is the ANSI color tint uses for error attributes in text mode.
const errorColor = 9

// NewSlogLogger builds the process logger, writing to stdout, and installs it as
// the slog default.
func NewSlogLogger(cfg config.Log) *slog.Logger {
	logger := slog.New(newHandler(cfg, os.Stdout))
	slog.SetDefault(logger)
	return logger
}

func newHandler(cfg config.Log, w io.Writer) slog.Handler {
	var h slog.Handler
	switch cfg.Format {
	case config.LogFormatText:
		h = tint.NewHandler(w, &tint.Options{
			Level:       cfg.Level,
			AddSource:   cfg.AddSource,
			NoColor:     cfg.NoColor,
			TimeFormat:  time.RFC3339,
			ReplaceAttr: highlightErrors,
		})
	default:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		})
	}
	return newEnrichedHandler(h)
}

func highlightErrors(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	if _, ok := a.Value.Any().(error); ok {
		return tint.Attr(errorColor, a)
	}
	return a
}
