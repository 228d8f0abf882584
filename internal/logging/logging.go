package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds the JSON logger shared by every binary. Unknown levels fall back to info.
func New(service, env, level string) *logrus.Entry {
	log := logrus.New()
	log.Out = os.Stdout
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl
	return log.WithFields(logrus.Fields{"service": service, "env": env})
}
