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

// Package flutter computes the flutter.* values the Android build reads:
// version name and code from pubspec.yaml, and SDK levels from the tool
// configuration, each overridable through android/local.properties.
package flutter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"

	"github.com/signalgame/android-signing/pkg/config"
)

const (
	// PubspecFileName is the Flutter project manifest.
	PubspecFileName = "pubspec.yaml"
	// LocalPropertiesFileName is written by the Flutter tool next to the
	// Android root project.
	LocalPropertiesFileName = "local.properties"
	// AppModuleDir is the application module inside the Android project.
	AppModuleDir = "app"

	// DefaultVersionName is used when pubspec.yaml has no version.
	DefaultVersionName = "1.0.0"
	// DefaultVersionCode is used when the version has no build number.
	DefaultVersionCode = 1
)

// local.properties keys.
const (
	PropVersionName       = "flutter.versionName"
	PropVersionCode       = "flutter.versionCode"
	PropCompileSdkVersion = "flutter.compileSdkVersion"
	PropTargetSdkVersion  = "flutter.targetSdkVersion"
	PropMinSdkVersion     = "flutter.minSdkVersion"
	PropNdkVersion        = "flutter.ndkVersion"
	PropSDK               = "flutter.sdk"
)

// Pubspec holds the pubspec.yaml fields the build uses.
type Pubspec struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Version     string            `yaml:"version"`
	Environment map[string]string `yaml:"environment"`
}

// Values are the framework values substituted into the build.
type Values struct {
	VersionName string `json:"versionName"`
	VersionCode int    `json:"versionCode"`
	CompileSdk  int    `json:"compileSdk"`
	TargetSdk   int    `json:"targetSdk"`
	MinSdk      int    `json:"minSdk"`
	NdkVersion  string `json:"ndkVersion"`
	// SDKPath is the Flutter SDK location from local.properties, if any.
	SDKPath string `json:"sdkPath,omitempty"`
	// ProjectName is the pubspec name, empty when no pubspec was found.
	ProjectName string `json:"projectName,omitempty"`
}

// ParsePubspec decodes pubspec.yaml content.
func ParsePubspec(data []byte) (*Pubspec, error) {
	var p Pubspec
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", PubspecFileName, err)
	}
	return &p, nil
}

// ReadPubspec reads pubspec.yaml from dir. It returns (nil, nil) when the file
// does not exist.
func ReadPubspec(dir string) (*Pubspec, error) {
	data, err := os.ReadFile(filepath.Join(dir, PubspecFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", PubspecFileName, err)
	}
	return ParsePubspec(data)
}

// ParseVersion splits a pubspec version of the form <name>+<code>. The code
// defaults to DefaultVersionCode when absent.
func ParseVersion(version string) (string, int, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return "", 0, errors.New("empty version")
	}
	name, build, hasBuild := strings.Cut(version, "+")
	if name == "" {
		return "", 0, fmt.Errorf("version %q has no name", version)
	}
	if strings.ContainsAny(name, " \t") {
		return "", 0, fmt.Errorf("version %q contains whitespace", version)
	}
	if !hasBuild {
		return name, DefaultVersionCode, nil
	}
	code, err := parseVersionCode(build)
	if err != nil {
		return "", 0, fmt.Errorf("version %q: %w", version, err)
	}
	return name, code, nil
}

func parseVersionCode(s string) (int, error) {
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("version code %q is not a number", s)
	}
	if code < 1 {
		return 0, fmt.Errorf("version code %d must be positive", code)
	}
	return code, nil
}

// ReadLocalProperties reads local.properties from dir. A missing file yields
// an empty map.
func ReadLocalProperties(dir string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, LocalPropertiesFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", LocalPropertiesFileName, err)
	}
	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", LocalPropertiesFileName, err)
	}
	return p.Map(), nil
}

// SourceDir returns the Flutter project directory for an Android project
// root, given the source path configured relative to the app module.
func SourceDir(projectRoot, flutterSource string) string {
	if filepath.IsAbs(flutterSource) {
		return filepath.Clean(flutterSource)
	}
	return filepath.Join(projectRoot, AppModuleDir, flutterSource)
}

// Resolve computes the framework values for the Android project at
// projectRoot.
func Resolve(projectRoot, flutterSource string, defaults config.FrameworkConfig) (*Values, error) {
	pubspec, err := ReadPubspec(SourceDir(projectRoot, flutterSource))
	if err != nil {
		return nil, err
	}
	local, err := ReadLocalProperties(projectRoot)
	if err != nil {
		return nil, err
	}
	return Compute(pubspec, local, defaults)
}

// Compute merges pubspec, local.properties and defaults. pubspec may be nil.
func Compute(pubspec *Pubspec, local map[string]string, defaults config.FrameworkConfig) (*Values, error) {
	v := &Values{
		VersionName: DefaultVersionName,
		VersionCode: DefaultVersionCode,
		CompileSdk:  defaults.CompileSdk,
		TargetSdk:   defaults.TargetSdk,
		MinSdk:      defaults.MinSdk,
		NdkVersion:  defaults.NdkVersion,
		SDKPath:     local[PropSDK],
	}

	if pubspec != nil {
		v.ProjectName = pubspec.Name
		if pubspec.Version != "" {
			name, code, err := ParseVersion(pubspec.Version)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", PubspecFileName, err)
			}
			v.VersionName, v.VersionCode = name, code
		}
	}

	if s, ok := local[PropVersionName]; ok && s != "" {
		v.VersionName = s
	}
	if s, ok := local[PropVersionCode]; ok && s != "" {
		code, err := parseVersionCode(s)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", LocalPropertiesFileName, PropVersionCode, err)
		}
		v.VersionCode = code
	}

	for _, o := range []struct {
		key string
		dst *int
	}{
		{PropCompileSdkVersion, &v.CompileSdk},
		{PropTargetSdkVersion, &v.TargetSdk},
		{PropMinSdkVersion, &v.MinSdk},
	} {
		s, ok := local[o.key]
		if !ok || s == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%s %s: %q is not a number", LocalPropertiesFileName, o.key, s)
		}
		*o.dst = n
	}
	if s := local[PropNdkVersion]; s != "" {
		v.NdkVersion = s
	}

	return v, nil
}
