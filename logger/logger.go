package logger

import (
	"os"

	"bank-ledger/config"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. It is usable at package load time;
// Init applies the configured level and format.
var Log = logrus.New()

// Init configures the shared logger from the loaded configuration. Logs go
// to stderr so that stdout stays free for the interactive menu.
func Init() {
	Log.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(config.AppConfig.Logger.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if config.AppConfig.Logger.Format == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
