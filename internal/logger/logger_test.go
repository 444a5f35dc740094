package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected logrus.Level
	}{
		{"debug", "debug", logrus.DebugLevel},
		{"warn", "warn", logrus.WarnLevel},
		{"upper case", "ERROR", logrus.ErrorLevel},
		{"unknown", "loud", logrus.InfoLevel},
		{"empty", "", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.level)
			if logger == nil {
				t.Fatal("Expected logger to be initialized")
			}
			if logger.GetLevel() != tt.expected {
				t.Errorf("Expected level %v, got %v", tt.expected, logger.GetLevel())
			}
		})
	}
}
