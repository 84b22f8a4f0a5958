package cli

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

func getLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel, nil
	case "", "info":
		return logrus.InfoLevel, nil
	case "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.DebugLevel, fmt.Errorf("invalid log level: %v", level)
	}
}

func getFormatter(format string) logrus.Formatter {
	switch format {
	case "json":
		return &logrus.JSONFormatter{}
	case "json-pretty":
		return &logrus.JSONFormatter{PrettyPrint: true}
	default:
		return &logrus.TextFormatter{DisableTimestamp: true}
	}
}
