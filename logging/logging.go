// Package logging builds the service's structured logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a logrus entry for the named service. format is "json" or
// "text"; an unknown or empty level falls back to info.
func New(service, format, level string) *logrus.Entry {
	return NewWithOutput(os.Stdout, service, format, level)
}

// NewWithOutput is New writing to out
func NewWithOutput(out io.Writer, service, format, level string) *logrus.Entry {
	log := logrus.New()
	if format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}
	log.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil || level == "" {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log.WithField("service", service)
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Entry {
	return NewWithOutput(io.Discard, "test", "json", "panic")
}
