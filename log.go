package devcert

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the command logger. Logs go to the --log-file and, with
// --verbose, to stderr; with neither they are discarded. The returned func
// closes the log file.
func NewLogger(cfg *Config, stderr io.Writer) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	log.SetLevel(logrus.InfoLevel)

	closeFn := func() error { return nil }

	var outs []io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, err
		}
		outs = append(outs, f)
		closeFn = f.Close
	}
	if cfg.Verbose {
		outs = append(outs, stderr)
		log.SetLevel(logrus.DebugLevel)
	}

	switch len(outs) {
	case 0:
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)
	case 1:
		log.SetOutput(outs[0])
	default:
		log.SetOutput(io.MultiWriter(outs...))
	}

	return log, closeFn, nil
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}
