// Copyright 2026 The android-signing Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package options defines the command-line options and flags for the
// android-signing CLI.
package options

import (
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/signalgame/android-signing/pkg/config"
	"github.com/signalgame/android-signing/pkg/logging"
	"github.com/signalgame/android-signing/pkg/report"
	"github.com/signalgame/android-signing/pkg/signing"
)

// DefaultTimeout specifies the default timeout duration for commands.
const DefaultTimeout = 2 * time.Minute

// ValidLogLevels lists the valid log level strings.
var ValidLogLevels = []string{"debug", "info", "warn", "error", "silent"}

// ValidLogFormats lists the valid log format strings.
var ValidLogFormats = []string{"text", "json"}

var logExts = []string{"log", "txt"}

var configExts = []string{"yaml", "yml"}

// RootOptions defines flags and options for the root CLI command.
// These options are available globally across all subcommands. Flags that
// were not given on the command line fall back to the tool configuration.
type RootOptions struct {
	// ProjectRoot is the Android project directory holding key.properties.
	ProjectRoot string
	// ConfigFile is an explicit android-signing.yaml path.
	ConfigFile string
	// CredentialsFile overrides the configured credentials file.
	CredentialsFile string
	// RequireRelease turns an absent credentials file into an error.
	RequireRelease bool
	// Output is the report encoding (text, json, yaml).
	Output string
	// ShowSecrets prints passwords unmasked.
	ShowSecrets bool
	// LogLevel sets the minimum log level (debug, info, warn, error, silent).
	LogLevel string
	// LogFormat sets the log output format (text, json).
	LogFormat string
	// LogFile additionally writes logs to a rotating file.
	LogFile string
	// Timeout sets the maximum duration for command execution.
	Timeout time.Duration

	flags *cobra.Command
}

var _ FlagAdder = (*RootOptions)(nil)

// AddFlags implements FlagAdder by adding root-level flags to the cobra command.
func (o *RootOptions) AddFlags(cmd *cobra.Command) {
	o.flags = cmd

	cmd.PersistentFlags().StringVarP(&o.ProjectRoot, "project-root", "C", ".",
		"Android project directory (the one containing key.properties)")
	_ = cmd.MarkPersistentFlagDirname("project-root")

	cmd.PersistentFlags().StringVar(&o.ConfigFile, "config", "",
		"path to android-signing.yaml (default: searched in the project root)")
	_ = cmd.MarkPersistentFlagFilename("config", configExts...)

	cmd.PersistentFlags().StringVar(&o.CredentialsFile, "credentials-file", "",
		"credentials file relative to the project root (default: key.properties)")

	cmd.PersistentFlags().BoolVar(&o.RequireRelease, "require-release-signing", false,
		"fail when release builds would fall back to the debug identity")

	cmd.PersistentFlags().StringVarP(&o.Output, "output", "o", string(report.FormatText),
		"output format (text, json, yaml)")

	cmd.PersistentFlags().BoolVar(&o.ShowSecrets, "show-secrets", false,
		"print passwords instead of masking them")

	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "info",
		"set the minimum log level (debug, info, warn, error, silent)")

	cmd.PersistentFlags().StringVar(&o.LogFormat, "log-format", "text",
		"set the log output format (text, json)")

	cmd.PersistentFlags().StringVar(&o.LogFile, "log-file", "",
		"also write logs to a rotating file")
	_ = cmd.MarkPersistentFlagFilename("log-file", logExts...)

	cmd.PersistentFlags().DurationVarP(&o.Timeout, "timeout", "t", DefaultTimeout,
		"timeout for commands")
}

func (o *RootOptions) changed(name string) bool {
	return o.flags != nil && o.flags.PersistentFlags().Changed(name)
}

// ApplyConfig merges cfg into the options and the options into cfg. Flags
// given on the command line win; flags left at their defaults take the
// configured value.
func (o *RootOptions) ApplyConfig(cfg *config.Config) {
	if o.changed("log-level") {
		cfg.Log.Level = o.LogLevel
	} else {
		o.LogLevel = cfg.Log.Level
	}
	if o.changed("log-format") {
		cfg.Log.Format = o.LogFormat
	} else {
		o.LogFormat = cfg.Log.Format
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	} else {
		o.LogFile = cfg.Log.File
	}
	if o.CredentialsFile != "" {
		cfg.CredentialsFile = o.CredentialsFile
	}
	if o.RequireRelease {
		cfg.Signing.Policy = signing.PolicyRequireRelease.String()
	}
}

// GetLogLevel returns the effective log level based on the options.
func (o *RootOptions) GetLogLevel() logging.LogLevel {
	return logging.ParseLogLevel(o.LogLevel)
}

// GetLogFormat returns the log format based on the options.
func (o *RootOptions) GetLogFormat() logging.LogFormat {
	return logging.ParseLogFormat(o.LogFormat)
}

// NewLogger creates a new logger based on the root options and the
// configured rotation settings.
func (o *RootOptions) NewLogger(rotation config.RotationConfig) *logging.ZapLogger {
	return logging.NewLoggerWithOptions(logging.LoggerOptions{
		Level:  o.GetLogLevel(),
		Format: o.GetLogFormat(),
		File:   o.LogFile,
		Rotation: logging.RotationOptions{
			MaxSizeMB:  rotation.MaxSizeMB,
			MaxBackups: rotation.MaxBackups,
			MaxAgeDays: rotation.MaxAgeDays,
			Compress:   rotation.Compress,
		},
	})
}

// ReportOptions returns the rendering options for output written to w.
// Colour is used only for text written to a terminal.
func (o *RootOptions) ReportOptions(w io.Writer) (report.Options, error) {
	format, err := report.ParseFormat(o.Output)
	if err != nil {
		return report.Options{}, err
	}
	f, isFile := w.(*os.File)
	return report.Options{
		Format:      format,
		ShowSecrets: o.ShowSecrets,
		Color:       isFile && f == os.Stdout && !color.NoColor,
	}, nil
}
