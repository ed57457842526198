package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"easykaiko/src/config"
	"easykaiko/src/models"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// -----------------------------------------------------------------------------

// Logger is the leveled, printf-style logger shared by every component.
// Messages are conventionally prefixed with the component name: "%s : ...".
type Logger struct {
	name  string
	entry *logrus.Entry
}

// -----------------------------------------------------------------------------

// NewLogger creates the application logger from the loaded configuration
func NewLogger(config *config.Config, name string) *Logger {
	return New(config.Logging, name)
}

// -----------------------------------------------------------------------------

// New creates a logger writing to stderr, or to a rotated file when cfg.File is set.
func New(cfg models.MLoggingConfig, name string) *Logger {
	var out io.Writer = os.Stderr
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
	}
	return newWithOutput(out, cfg, name)
}

// -----------------------------------------------------------------------------

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return newWithOutput(io.Discard, models.MLoggingConfig{Level: "error"}, "nop")
}

// -----------------------------------------------------------------------------

func newWithOutput(out io.Writer, cfg models.MLoggingConfig, name string) *Logger {
	base := logrus.New()
	base.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	if strings.EqualFold(cfg.Format, "text") {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	return &Logger{
		name:  name,
		entry: base.WithField("app", name),
	}
}

// -----------------------------------------------------------------------------

// GetName returns the logger name
func (l *Logger) GetName() string {
	return l.name
}

// -----------------------------------------------------------------------------

// WithField returns a child logger carrying an extra structured field.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{name: l.name, entry: l.entry.WithField(key, value)}
}

// -----------------------------------------------------------------------------

func (l *Logger) Debug(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warning(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

// Critical logs at error level with a critical marker; callers decide whether to exit.
func (l *Logger) Critical(format string, args ...any) {
	l.entry.WithField("critical", true).Error(fmt.Sprintf(format, args...))
}
