package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

var (
	log     *logrus.Logger
	logFile *os.File
)

// Init configures the shared logger. An unknown level falls back to info.
// When file is non-empty, output goes to stderr and the file. A file opened
// by an earlier Init is closed.
func Init(level, file string) error {
	if err := Close(); err != nil {
		return err
	}
	log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	writers := []io.Writer{os.Stderr}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return errors.Wrapf(err, "logging: create directory for %s", file)
		}

		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return errors.Wrapf(err, "logging: open %s", file)
		}
		logFile = f
		writers = append(writers, f)
	}
	log.SetOutput(io.MultiWriter(writers...))

	return nil
}

// Get returns the shared logger, creating a default one if Init was never called.
func Get() *logrus.Logger {
	if log == nil {
		log = logrus.New()
	}
	return log
}

// Close releases the log file, if any. The logger keeps writing to stderr.
func Close() error {
	if logFile == nil {
		return nil
	}
	f := logFile
	logFile = nil
	if log != nil {
		log.SetOutput(os.Stderr)
	}
	return errors.Wrapf(f.Close(), "logging: close %s", f.Name())
}
