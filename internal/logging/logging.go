// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is shared by every component that is not handed its own.
var Logger = logrus.New()

type appNameHook struct {
	appName string
}

func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// Init sets the level from LOG_LEVEL (default info), a full-timestamp text
// formatter and a hook prefixing messages with appName.
func Init(appName string) {
	configure(Logger, appName, os.Stderr, os.Getenv("LOG_LEVEL"))
}

func configure(l *logrus.Logger, appName string, out io.Writer, levelStr string) {
	l.SetOutput(out)

	levelStr = strings.ToLower(strings.TrimSpace(levelStr))
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		l.Warnf("Invalid LOG_LEVEL '%s', defaulting to INFO", levelStr)
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	l.ReplaceHooks(make(logrus.LevelHooks))
	l.AddHook(&appNameHook{appName})
}

// For returns a logger tagged with a component name.
func For(component string) logrus.FieldLogger {
	return Logger.WithField("component", component)
}
