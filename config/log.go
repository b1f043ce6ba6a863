package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// SlogLevel parses Level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewLogger builds the process logger: a colored tint handler for "text",
// slog's JSON handler for "json". Color is disabled unless w is a
// terminal.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	switch c.Format {
	case "", "text":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      c.SlogLevel(),
			TimeFormat: time.Kitchen,
			NoColor:    !isTerminal(w),
		})), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.SlogLevel()})), nil
	}
	return nil, fmt.Errorf("%w: log format %q", ErrInvalid, c.Format)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
