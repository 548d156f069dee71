// Package logging configures the process-wide logrus logger. Components take
// a module-scoped entry via ForModule so every line carries its origin.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	root *logrus.Logger
)

// Root returns the shared logger, initializing it on first use.
// LOG_LEVEL and LOG_FORMAT (text|json) control output; defaults are
// info-level text.
func Root() *logrus.Logger {
	once.Do(func() {
		root = logrus.New()
		root.SetOutput(os.Stdout)

		level, err := logrus.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
		if err != nil {
			level = logrus.InfoLevel
		}
		root.SetLevel(level)

		if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
			root.SetFormatter(&logrus.JSONFormatter{})
		} else {
			root.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
	})
	return root
}

// ForModule returns an entry tagged with the given module name.
func ForModule(name string) *logrus.Entry {
	return Root().WithField("module", name)
}
