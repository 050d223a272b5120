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

// Package config loads the android-signing tool configuration.
//
// Values come from, in increasing priority: built-in defaults matching the
// application's build script, an android-signing.yaml file, and environment
// variables prefixed with ANDROID_SIGNING_ (for example
// ANDROID_SIGNING_SIGNING_POLICY=require-release).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// FileBaseName is the config file name without extension.
	FileBaseName = "android-signing"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ANDROID_SIGNING"
	// EnvConfigPath names the environment variable holding an explicit config path.
	EnvConfigPath = EnvPrefix + "_CONFIG"

	// DefaultProguardFile is the optimizing rules file shipped with the SDK.
	DefaultProguardFile = "proguard-android-optimize.txt"
)

// Config is the root tool configuration.
type Config struct {
	// Namespace is the Android namespace (R class package).
	Namespace string `mapstructure:"namespace"`
	// ApplicationID is the published package name.
	ApplicationID string `mapstructure:"application_id"`
	// JavaVersion applies to source, target and jvmTarget.
	JavaVersion int `mapstructure:"java_version"`
	// CredentialsFile is relative to the project root unless absolute.
	CredentialsFile string `mapstructure:"credentials_file"`
	// FlutterSource is the Flutter project directory relative to the app module.
	FlutterSource string `mapstructure:"flutter_source"`

	Signing    SigningConfig    `mapstructure:"signing"`
	BuildTypes BuildTypesConfig `mapstructure:"build_types"`
	Framework  FrameworkConfig  `mapstructure:"framework"`
	Log        LogConfig        `mapstructure:"log"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// SigningConfig controls identity resolution.
type SigningConfig struct {
	// Policy is fallback-to-debug or require-release.
	Policy string `mapstructure:"policy"`
	// AndroidUserHome holds debug.keystore. Empty uses the platform lookup.
	AndroidUserHome string `mapstructure:"android_user_home"`
}

// BuildTypesConfig holds the two build types the application defines.
type BuildTypesConfig struct {
	Release BuildTypeConfig `mapstructure:"release"`
	Debug   BuildTypeConfig `mapstructure:"debug"`
}

// BuildTypeConfig is the packaging configuration of one build type.
type BuildTypeConfig struct {
	Minify          bool     `mapstructure:"minify"`
	ShrinkResources bool     `mapstructure:"shrink_resources"`
	ProguardFiles   []string `mapstructure:"proguard_files"`
}

// FrameworkConfig holds the values the Flutter plugin supplies when
// local.properties does not override them.
type FrameworkConfig struct {
	CompileSdk int    `mapstructure:"compile_sdk"`
	NdkVersion string `mapstructure:"ndk_version"`
	MinSdk     int    `mapstructure:"min_sdk"`
	TargetSdk  int    `mapstructure:"target_sdk"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error, silent
	Level string `mapstructure:"level"`
	// Format: text or json
	Format string `mapstructure:"format"`
	// File is an optional rotating log file.
	File string `mapstructure:"file"`

	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig controls log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// Default returns the configuration equivalent to the application's build
// script.
func Default() *Config {
	return &Config{
		Namespace:       "com.petshelter.rushgame",
		ApplicationID:   "com.petshelter.rushgame",
		JavaVersion:     17,
		CredentialsFile: "key.properties",
		FlutterSource:   "../..",
		Signing: SigningConfig{
			Policy: "fallback-to-debug",
		},
		BuildTypes: BuildTypesConfig{
			Release: BuildTypeConfig{
				Minify:          true,
				ShrinkResources: true,
				ProguardFiles:   []string{DefaultProguardFile, "proguard-rules.pro"},
			},
			Debug: BuildTypeConfig{
				ProguardFiles: []string{},
			},
		},
		Framework: FrameworkConfig{
			CompileSdk: 35,
			NdkVersion: "27.0.12077973",
			MinSdk:     21,
			TargetSdk:  35,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Rotation: RotationConfig{
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 28,
			},
		},
	}
}

// Load reads configuration from path when non-empty, otherwise from
// $ANDROID_SIGNING_CONFIG, otherwise it searches projectRoot and
// projectRoot/android for android-signing.yaml. A missing file is not an
// error; defaults and environment overrides still apply.
func Load(path, projectRoot string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults so env-only configs work
	v.SetDefault("namespace", cfg.Namespace)
	v.SetDefault("application_id", cfg.ApplicationID)
	v.SetDefault("java_version", cfg.JavaVersion)
	v.SetDefault("credentials_file", cfg.CredentialsFile)
	v.SetDefault("flutter_source", cfg.FlutterSource)
	v.SetDefault("signing.policy", cfg.Signing.Policy)
	v.SetDefault("signing.android_user_home", cfg.Signing.AndroidUserHome)
	v.SetDefault("build_types.release.minify", cfg.BuildTypes.Release.Minify)
	v.SetDefault("build_types.release.shrink_resources", cfg.BuildTypes.Release.ShrinkResources)
	v.SetDefault("build_types.release.proguard_files", cfg.BuildTypes.Release.ProguardFiles)
	v.SetDefault("build_types.debug.minify", cfg.BuildTypes.Debug.Minify)
	v.SetDefault("build_types.debug.shrink_resources", cfg.BuildTypes.Debug.ShrinkResources)
	v.SetDefault("build_types.debug.proguard_files", cfg.BuildTypes.Debug.ProguardFiles)
	v.SetDefault("framework.compile_sdk", cfg.Framework.CompileSdk)
	v.SetDefault("framework.ndk_version", cfg.Framework.NdkVersion)
	v.SetDefault("framework.min_sdk", cfg.Framework.MinSdk)
	v.SetDefault("framework.target_sdk", cfg.Framework.TargetSdk)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileBaseName)
		if projectRoot == "" {
			projectRoot = "."
		}
		v.AddConfigPath(projectRoot)
		v.AddConfigPath(filepath.Join(projectRoot, "android"))
	}

	// a missing searched-for file is fine; a missing explicit file is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and normalizes string enums.
func (c *Config) Validate() error {
	var errs []error

	if err := validatePackageName("namespace", c.Namespace); err != nil {
		errs = append(errs, err)
	}
	if err := validatePackageName("application_id", c.ApplicationID); err != nil {
		errs = append(errs, err)
	}
	if c.JavaVersion < 8 {
		errs = append(errs, fmt.Errorf("java_version must be at least 8, got %d", c.JavaVersion))
	}
	if strings.TrimSpace(c.CredentialsFile) == "" {
		errs = append(errs, errors.New("credentials_file must not be empty"))
	}

	c.Signing.Policy = strings.ToLower(strings.TrimSpace(c.Signing.Policy))
	switch c.Signing.Policy {
	case "", "fallback-to-debug", "fallback", "require-release", "require", "strict":
	default:
		errs = append(errs, fmt.Errorf("invalid signing.policy: %q", c.Signing.Policy))
	}

	for name, bt := range map[string]BuildTypeConfig{"release": c.BuildTypes.Release, "debug": c.BuildTypes.Debug} {
		if bt.ShrinkResources && !bt.Minify {
			errs = append(errs, fmt.Errorf("build_types.%s: shrink_resources requires minify", name))
		}
	}

	fw := c.Framework
	if fw.MinSdk < 1 {
		errs = append(errs, fmt.Errorf("framework.min_sdk must be positive, got %d", fw.MinSdk))
	}
	if fw.MinSdk > fw.TargetSdk {
		errs = append(errs, fmt.Errorf("framework.min_sdk (%d) exceeds target_sdk (%d)", fw.MinSdk, fw.TargetSdk))
	}
	if fw.TargetSdk > fw.CompileSdk {
		errs = append(errs, fmt.Errorf("framework.target_sdk (%d) exceeds compile_sdk (%d)", fw.TargetSdk, fw.CompileSdk))
	}

	lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch lvl {
	case "debug", "info", "warn", "warning", "error", "silent":
		c.Log.Level = lvl
	default:
		errs = append(errs, fmt.Errorf("invalid log.level: %q", c.Log.Level))
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	return errors.Join(errs...)
}

// validatePackageName checks Java package naming: two or more dot separated
// segments of letters, digits and underscores, each starting with a letter.
func validatePackageName(field, name string) error {
	segments := strings.Split(name, ".")
	if len(segments) < 2 {
		return fmt.Errorf("%s %q must have at least two segments", field, name)
	}
	for _, seg := range segments {
		if seg == "" {
			return fmt.Errorf("%s %q has an empty segment", field, name)
		}
		for i, r := range seg {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case i > 0 && (r >= '0' && r <= '9' || r == '_'):
			default:
				return fmt.Errorf("%s %q: segment %q must start with a letter and contain only letters, digits and underscores", field, name, seg)
			}
		}
	}
	return nil
}

// CredentialsPath returns the credentials file location for projectRoot.
func (c *Config) CredentialsPath(projectRoot string) string {
	if filepath.IsAbs(c.CredentialsFile) {
		return filepath.Clean(c.CredentialsFile)
	}
	return filepath.Join(projectRoot, c.CredentialsFile)
}
