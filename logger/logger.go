package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New creates a logger with the given level and format ("json" or "text").
func New(level, format string) *logrus.Logger {
	log := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	if strings.EqualFold(format, "text") {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	log.SetOutput(os.Stdout)

	return log
}

// WithRequestID adds request ID to logger
func WithRequestID(log logrus.FieldLogger, requestID string) *logrus.Entry {
	return log.WithField("request_id", requestID)
}
