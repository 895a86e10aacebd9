package logger

import (
	"io"
	"log/slog"
	"os"
)

var Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

// Init installs a text handler on w (stdout when nil) and makes it the slog default.
func Init(debug bool, w io.Writer) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(Logger)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
