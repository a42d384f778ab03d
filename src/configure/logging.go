package configure

import (
	"io"

	"github.com/sirupsen/logrus"
)

func initLogging(cfg *Config) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Warn("unknown log level, falling back to info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.NoLogs {
		logrus.SetOutput(io.Discard)
	}
}
