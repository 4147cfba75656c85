// Package logger writes habitgrid's structured log to a rotated file under
// the config directory.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/habitgrid/internal/constants"
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// Logger receives every record. Until Init runs it is nil and the helpers
// below discard their input.
var Logger *log.Logger

type Config struct {
	Debug     bool
	ConfigDir string

	// Console gets a copy of each record when Debug is set. Nil means stderr.
	Console io.Writer
}

// LogFile returns the rotating log file path under configDir.
func LogFile(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init points Logger at the rotated file, and at the console too in debug
// mode. Outside debug mode only warnings and errors are kept.
func Init(cfg Config) error {
	path := LogFile(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
		// The TUI owns the terminal, so the console copy is opt-in.
		console := cfg.Console
		if console == nil {
			console = os.Stderr
		}
		out = io.MultiWriter(console, out)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

func Debug(msg string, keyvals ...interface{}) { logAt(log.DebugLevel, msg, keyvals) }
func Info(msg string, keyvals ...interface{})  { logAt(log.InfoLevel, msg, keyvals) }
func Warn(msg string, keyvals ...interface{})  { logAt(log.WarnLevel, msg, keyvals) }
func Error(msg string, keyvals ...interface{}) { logAt(log.ErrorLevel, msg, keyvals) }

func logAt(level log.Level, msg string, keyvals []interface{}) {
	if Logger == nil {
		return
	}
	Logger.Log(level, msg, keyvals...)
}
