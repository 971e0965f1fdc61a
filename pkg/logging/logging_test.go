package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{"", logrus.InfoLevel},
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"warning", logrus.WarnLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"nonsense", logrus.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}

func TestReportError(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	var buf bytes.Buffer
	Setup("test", "info", &buf)

	ReportError("Failed to load messaging server names", errors.New("connection refused"))

	out := buf.String()
	assert.Contains(t, out, "Failed to load messaging server names")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "level=error")
}

func TestSetupHonoursEnvLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	var buf bytes.Buffer
	log := Setup("test", "debug", &buf)

	log.Info("hidden")
	assert.Empty(t, buf.String())
}
