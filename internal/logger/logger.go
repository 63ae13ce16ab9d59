// Package logger holds the process-wide structured logger. Output goes to a
// rotating file under the config directory and, with --debug, to stderr too.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/habitlens/internal/constants"
)

const (
	logDirName    = "logs"
	maxFileSizeMB = 10
	maxBackups    = 3
	maxAgeDays    = 28
)

// Logger is nil until Init succeeds; the helpers below are no-ops until then.
var Logger *log.Logger

type Config struct {
	Debug     bool
	ConfigDir string

	// Store and Timezone describe the session and are recorded once at
	// startup. Store must already be redacted.
	Store    string
	Timezone string
}

// LogPath is the active log file for a config directory.
func LogPath(configDir string) string {
	return filepath.Join(configDir, logDirName, constants.AppName+".log")
}

func Init(cfg Config) error {
	path := LogPath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var sink io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxFileSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
		sink = io.MultiWriter(os.Stderr, sink)
	}

	Logger = log.NewWithOptions(sink, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})

	timezone := cfg.Timezone
	if timezone == "" {
		timezone = "Local"
	}
	Logger.Debug("Session started", "version", constants.Version, "store", cfg.Store, "timezone", timezone)
	return nil
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
