// Package logger builds the logrus logger shared by the binaries.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger with full timestamps at the given level.
// Unknown level names fall back to info.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}
