// Package logging configures the shared structured logger.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus logger at the given level. JSON formatting suits
// production log shipping; the text formatter is friendlier in development.
func New(level string, jsonFormat bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if jsonFormat {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return log
}
