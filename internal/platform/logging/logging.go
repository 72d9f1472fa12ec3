package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/animus-labs/sqlrunner/internal/platform/env"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

type Config struct {
	Level  slog.Level
	Format string
}

func ConfigFromEnv(src env.Source) (Config, error) {
	level, err := ParseLevel(src.String("SQLRUNNER_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Level:  level,
		Format: strings.ToLower(strings.TrimSpace(src.String("SQLRUNNER_LOG_FORMAT", FormatJSON))),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatText:
		return nil
	default:
		return fmt.Errorf("SQLRUNNER_LOG_FORMAT must be %q or %q, got %q", FormatJSON, FormatText, c.Format)
	}
}

func ParseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("parse SQLRUNNER_LOG_LEVEL: %w", err)
	}
	return level, nil
}

func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == FormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
