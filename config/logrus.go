package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger. The level comes from config so
// noisy sync logging can be turned up in the field without a rebuild.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}
