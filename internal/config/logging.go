package config

import (
	log "github.com/sirupsen/logrus"
)

// SetupLogging installs the text formatter with millisecond timestamps and
// applies level. An unknown level falls back to info.
func SetupLogging(level string) {
	formatter := new(log.TextFormatter)
	formatter.TimestampFormat = "2006-01-02T15:04:05.999Z07:00"
	formatter.FullTimestamp = true
	log.SetFormatter(formatter)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).Warnf("unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.Debug("debug logging enabled")
}
