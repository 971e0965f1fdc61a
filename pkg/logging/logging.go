// Package logging configures the logrus logger shared by the console and the
// management endpoint.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvLogLevel overrides the configured level when set.
const EnvLogLevel = "ASCONSOLE_LOG_LEVEL"

var std = logrus.New()

// Setup configures the package logger. An empty level means info.
func Setup(component, level string, out io.Writer) *logrus.Entry {
	if out == nil {
		out = os.Stderr
	}
	if fromEnv := os.Getenv(EnvLogLevel); fromEnv != "" {
		level = fromEnv
	}

	std.SetOutput(out)
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	std.SetLevel(ParseLevel(level))

	return std.WithField("component", component)
}

// ParseLevel maps a case-insensitive level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	level = strings.TrimSpace(level)
	if level == "" {
		return logrus.InfoLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// Logger returns the shared logger scoped to a component.
func Logger(component string) *logrus.Entry {
	return std.WithField("component", component)
}

// ReportError is the console-level error reporter: remote failures end here
// and are otherwise dropped.
func ReportError(message string, err error) {
	entry := std.WithField("component", "console")
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)
}
