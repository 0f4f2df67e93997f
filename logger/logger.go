// Package logger configures the process-wide slog handler: JSON in
// production for log aggregators, text for development.
package logger

import (
	"log/slog"
	"os"
)

func Setup(appEnv string) *slog.Logger {
	var handler slog.Handler
	switch appEnv {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}
