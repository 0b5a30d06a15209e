// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new configured logger instance
func NewLogger(logLevel string) *logrus.Logger {
	return NewLoggerWithOutput(logLevel, os.Getenv("ENVIRONMENT"), os.Stdout)
}

// NewLoggerWithOutput creates a logger writing to out; production environments
// get JSON output, everything else coloured text.
func NewLoggerWithOutput(logLevel, environment string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   out == os.Stdout,
		})
	}

	return logger
}
