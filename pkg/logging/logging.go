package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// Logger is the logging surface handed to every component.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
	With(args ...any) Logger
}

type logger struct {
	l *slog.Logger
}

// New returns a text logger writing to w, filtered by level. Callers keep
// level to switch on debug output later.
func New(w io.Writer, level *slog.LevelVar) Logger {
	return &logger{
		l: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

func (l *logger) Debugf(format string, v ...any) {
	l.l.Debug(fmt.Sprintf(format, v...))
}

func (l *logger) Infof(format string, v ...any) {
	l.l.Info(fmt.Sprintf(format, v...))
}

func (l *logger) Warnf(format string, v ...any) {
	l.l.Warn(fmt.Sprintf(format, v...))
}

func (l *logger) Errorf(format string, v ...any) {
	l.l.Error(fmt.Sprintf(format, v...))
}

func (l *logger) With(args ...any) Logger {
	return &logger{l: l.l.With(args...)}
}
