package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var logger = log.New()

func init() {
	logger.Out = os.Stdout
	logger.Formatter = &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	logger.SetLevel(log.DebugLevel)
}

// Configure applies the level and format from configuration. Unknown levels
// keep the current one. Setting LOG_TO_FILE=true writes to logs/<date>.log.
func Configure(level, format string) {
	if level != "" {
		if lvl, err := log.ParseLevel(level); err == nil {
			logger.SetLevel(lvl)
		} else {
			logger.WithField("level", level).Warn("Unknown log level, keeping current")
		}
	}
	switch strings.ToLower(format) {
	case "text":
		logger.Formatter = &log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339}
	case "", "json":
		logger.Formatter = &log.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	}

	if os.Getenv("LOG_TO_FILE") != "true" {
		return
	}
	cwd, err := os.Getwd()
	if err != nil {
		logger.WithField("error", err).Warn("Failed get current working directory, logging to stdout")
		return
	}
	logsDir := filepath.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		logger.Warnf("Failed to create logs directory %s: %v, falling back to stdout", logsDir, err)
		return
	}
	filePath := filepath.Join(logsDir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		logger.Warnf("Failed to open log file %s: %v, falling back to stdout", filePath, err)
		return
	}
	logger.Out = f
}

// GetLogger returns an entry tagged with the caller's function and position.
func GetLogger() *log.Entry {
	function, file, line, _ := runtime.Caller(1)

	name := ""
	if functionObject := runtime.FuncForPC(function); functionObject != nil {
		name = functionObject.Name()
	}
	return logger.WithFields(log.Fields{
		"function": name,
		"file":     file,
		"line":     line,
	})
}
