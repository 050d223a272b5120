// Copyright 2026 The android-signing Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Verify ZapLogger implements Logger at compile time.
var _ Logger = (*ZapLogger)(nil)

// LoggerOptions configures a ZapLogger instance.
type LoggerOptions struct {
	// Level sets the minimum log level to output.
	Level LogLevel
	// Format selects the encoder (FormatText or FormatJSON).
	Format LogFormat
	// Output sets the writer for log output. Defaults to os.Stderr so that
	// command output on stdout stays machine readable.
	Output io.Writer
	// File, when set, additionally writes JSON logs to a rotating file.
	File string
	// Rotation controls the rotating file. Zero values pick defaults.
	Rotation RotationOptions
	// ShowTime controls whether console output carries a timestamp.
	ShowTime bool
}

// RotationOptions controls log file rotation for LoggerOptions.File.
type RotationOptions struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultLoggerOptions returns the default logger options.
func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		Level:  LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// ZapLogger implements Logger on top of a zap.SugaredLogger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
	// base is shared with derived loggers.
	base *atomic.Int32
}

// NewLogger creates a console logger at debug level when verbose is set and
// info level otherwise.
func NewLogger(verbose bool) *ZapLogger {
	opts := DefaultLoggerOptions()
	if verbose {
		opts.Level = LevelDebug
	}
	return NewLoggerWithOptions(opts)
}

// NewLoggerWithOptions creates a ZapLogger with the specified options.
func NewLoggerWithOptions(opts LoggerOptions) *ZapLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := zap.NewAtomicLevelAt(opts.Level.zapLevel())

	var encoder zapcore.Encoder
	if opts.Format == FormatJSON {
		encoder = zapcore.NewJSONEncoder(jsonEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(consoleEncoderConfig(opts.ShowTime))
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(out), level)}
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(jsonEncoderConfig()),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    atLeast(opts.Rotation.MaxSizeMB, 10),
				MaxBackups: atLeast(opts.Rotation.MaxBackups, 1),
				MaxAge:     atLeast(opts.Rotation.MaxAgeDays, 7),
				Compress:   opts.Rotation.Compress,
			}),
			level,
		))
	}

	base := new(atomic.Int32)
	base.Store(int32(opts.Level))
	return &ZapLogger{
		sugar: zap.New(zapcore.NewTee(cores...)).Sugar(),
		level: level,
		base:  base,
	}
}

func consoleEncoderConfig(showTime bool) zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.CallerKey = ""
	cfg.NameKey = ""
	cfg.StacktraceKey = ""
	if !showTime {
		cfg.TimeKey = ""
	}
	return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""
	return cfg
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

// Discard returns a logger that writes nothing.
func Discard() *ZapLogger {
	return NewLoggerWithOptions(LoggerOptions{Level: LevelSilent, Output: io.Discard})
}

// WithFields returns a new Logger with the given fields added to all log
// entries. Fields are attached in key order so output is stable.
func (l *ZapLogger) WithFields(fields map[string]interface{}) Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return &ZapLogger{
		sugar: l.sugar.With(kv...),
		level: l.level,
		base:  l.base,
	}
}

// WithField returns a new Logger with the given field added to all log entries.
func (l *ZapLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// SetLevel sets the minimum log level. Loggers derived with WithField share
// the level.
func (l *ZapLogger) SetLevel(level LogLevel) {
	l.base.Store(int32(level))
	l.level.SetLevel(level.zapLevel())
}

// GetLevel returns the current log level.
func (l *ZapLogger) GetLevel() LogLevel {
	return LogLevel(l.base.Load())
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

// Debug logs a message at debug level.
func (l *ZapLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Debugln logs a line at debug level.
func (l *ZapLogger) Debugln(msg string) {
	l.sugar.Debug(msg)
}

// Info logs a message at info level.
func (l *ZapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Infoln logs a line at info level.
func (l *ZapLogger) Infoln(msg string) {
	l.sugar.Info(msg)
}

// Warn logs a message at warn level.
func (l *ZapLogger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Warnln logs a line at warn level.
func (l *ZapLogger) Warnln(msg string) {
	l.sugar.Warn(msg)
}

// Error logs a message at error level.
func (l *ZapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Errorln logs a line at error level.
func (l *ZapLogger) Errorln(msg string) {
	l.sugar.Error(msg)
}

// Silent returns true if the logger suppresses debug output.
func (l *ZapLogger) Silent() bool {
	return l.GetLevel() > LevelDebug
}

// IsLevelEnabled returns true if the given level would produce output.
func (l *ZapLogger) IsLevelEnabled(level LogLevel) bool {
	return level != LevelSilent && level >= l.GetLevel()
}
