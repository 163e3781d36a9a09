// Package logging builds the process logger.
//
// Console output is terse and human oriented. When a log file is configured,
// every level is additionally recorded there as JSON with timestamps, rotated
// by lumberjack so long-lived installs do not grow unbounded logs.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogPath returns the rotating log file location used when settings do
// not name one.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gitbridge.log"
	}
	return filepath.Join(home, ".gitbridge", "logs", "gitbridge.log")
}

// New builds the gitbridge logger. debug lowers the console threshold to
// Debug; logFile, when non-empty, adds a rotating file sink that always
// records at Debug. A file sink failure degrades to console-only logging,
// reported through the returned error alongside the usable logger.
func New(debug bool, logFile string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "level",
		CallerKey:     "caller",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalColorLevelEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
		// No TimeKey: console lines stay short, the file sink keeps timestamps.
	}
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	opts := []zap.Option{zap.AddCaller()}
	if debug {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	if logFile == "" {
		return zap.New(consoleCore, opts...), nil
	}

	fileCore, err := newFileCore(logFile)
	if err != nil {
		return zap.New(consoleCore, opts...), err
	}
	return zap.New(zapcore.NewTee(consoleCore, fileCore), opts...), nil
}

// newFileCore builds the rotating debug sink.
func newFileCore(path string) (zapcore.Core, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotatingWriter(path)),
		zapcore.DebugLevel,
	), nil
}

// rotatingWriter configures lumberjack with small defaults suited to a
// desktop install. GITBRIDGE_LOG_* variables override the rotation knobs.
func rotatingWriter(path string) *lumberjack.Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    1, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}

	if v, err := strconv.Atoi(os.Getenv("GITBRIDGE_LOG_MAX_SIZE")); err == nil && v > 0 {
		w.MaxSize = v
	}
	if v, err := strconv.Atoi(os.Getenv("GITBRIDGE_LOG_MAX_BACKUPS")); err == nil && v >= 0 {
		w.MaxBackups = v
	}
	if v, err := strconv.Atoi(os.Getenv("GITBRIDGE_LOG_MAX_AGE")); err == nil && v > 0 {
		w.MaxAge = v
	}
	return w
}
