package config

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Validate проверяет уровень и формат
func (l *LogConfig) Validate() error {
	if l.Level != "" {
		if _, err := zerolog.ParseLevel(l.Level); err != nil {
			return fmt.Errorf("unknown level %q: %w", l.Level, err)
		}
	}
	switch l.Format {
	case "", "console", "json":
		return nil
	}
	return fmt.Errorf("unknown format %q (console/json)", l.Format)
}

// Logger создает zerolog.Logger по настройкам
func (l LogConfig) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}

	if l.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
