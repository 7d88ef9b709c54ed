package logger

import (
	"github.com/sirupsen/logrus"

	"deduction-reconciliation-backend/internal/config"
)

func New(cfg config.LogConfig) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}

// LogError records a failure with enough fields to locate it without a stack trace.
func LogError(l *logrus.Logger, module, fn string, err error) {
	l.WithFields(logrus.Fields{
		"module":   module,
		"function": fn,
	}).Error(err)
}
