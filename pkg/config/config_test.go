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

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ApplicationID != "com.petshelter.rushgame" || cfg.Namespace != "com.petshelter.rushgame" {
		t.Errorf("ids = %q, %q", cfg.ApplicationID, cfg.Namespace)
	}
	if cfg.JavaVersion != 17 {
		t.Errorf("JavaVersion = %d", cfg.JavaVersion)
	}
	if cfg.Signing.Policy != "fallback-to-debug" {
		t.Errorf("Signing.Policy = %q", cfg.Signing.Policy)
	}
	rel := cfg.BuildTypes.Release
	if !rel.Minify || !rel.ShrinkResources {
		t.Errorf("release build type = %+v", rel)
	}
	if !reflect.DeepEqual(rel.ProguardFiles, []string{DefaultProguardFile, "proguard-rules.pro"}) {
		t.Errorf("ProguardFiles = %v", rel.ProguardFiles)
	}
	if cfg.BuildTypes.Debug.Minify || cfg.BuildTypes.Debug.ShrinkResources {
		t.Errorf("debug build type = %+v", cfg.BuildTypes.Debug)
	}
	if cfg.Framework != (FrameworkConfig{CompileSdk: 35, NdkVersion: "27.0.12077973", MinSdk: 21, TargetSdk: 35}) {
		t.Errorf("Framework = %+v", cfg.Framework)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
}

func TestLoadSearchesAndroidDir(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "android", "android-signing.yaml"), `
application_id: com.petshelter.rushgame.beta
signing:
  policy: require-release
framework:
  min_sdk: 23
`)

	cfg, err := Load("", root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ApplicationID != "com.petshelter.rushgame.beta" {
		t.Errorf("ApplicationID = %q", cfg.ApplicationID)
	}
	if cfg.Signing.Policy != "require-release" {
		t.Errorf("Signing.Policy = %q", cfg.Signing.Policy)
	}
	if cfg.Framework.MinSdk != 23 || cfg.Framework.TargetSdk != 35 {
		t.Errorf("Framework = %+v", cfg.Framework)
	}
	if !strings.HasSuffix(cfg.File, filepath.Join("android", "android-signing.yaml")) {
		t.Errorf("File = %q", cfg.File)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "custom.yaml")
	writeFile(t, path, "java_version: 11\n")

	t.Setenv(EnvConfigPath, path)
	t.Setenv("ANDROID_SIGNING_SIGNING_POLICY", "strict")
	t.Setenv("ANDROID_SIGNING_LOG_LEVEL", "DEBUG")
	t.Setenv("ANDROID_SIGNING_FRAMEWORK_COMPILE_SDK", "36")

	cfg, err := Load("", root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.JavaVersion != 11 {
		t.Errorf("JavaVersion = %d, want value from file", cfg.JavaVersion)
	}
	if cfg.Signing.Policy != "strict" {
		t.Errorf("Signing.Policy = %q", cfg.Signing.Policy)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Framework.CompileSdk != 36 {
		t.Errorf("CompileSdk = %d", cfg.Framework.CompileSdk)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), ""); err == nil {
		t.Error("Load() with a missing explicit file succeeded")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "single segment id", mutate: func(c *Config) { c.ApplicationID = "rushgame" }, wantErr: "two segments"},
		{name: "digit first", mutate: func(c *Config) { c.Namespace = "com.1shelter" }, wantErr: "start with a letter"},
		{name: "hyphen", mutate: func(c *Config) { c.ApplicationID = "com.pet-shelter" }, wantErr: "letters, digits"},
		{name: "empty segment", mutate: func(c *Config) { c.ApplicationID = "com..rush" }, wantErr: "empty segment"},
		{name: "old java", mutate: func(c *Config) { c.JavaVersion = 7 }, wantErr: "java_version"},
		{name: "min above target", mutate: func(c *Config) { c.Framework.MinSdk = 36 }, wantErr: "min_sdk"},
		{name: "target above compile", mutate: func(c *Config) { c.Framework.TargetSdk = 36 }, wantErr: "compile_sdk"},
		{name: "shrink without minify", mutate: func(c *Config) { c.BuildTypes.Debug.ShrinkResources = true }, wantErr: "shrink_resources requires minify"},
		{name: "bad policy", mutate: func(c *Config) { c.Signing.Policy = "sometimes" }, wantErr: "signing.policy"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "no credentials file", mutate: func(c *Config) { c.CredentialsFile = " " }, wantErr: "credentials_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestCredentialsPath(t *testing.T) {
	cfg := Default()
	if got := cfg.CredentialsPath("/work/app/android"); got != filepath.Join("/work/app/android", "key.properties") {
		t.Errorf("CredentialsPath() = %q", got)
	}
	cfg.CredentialsFile = "/secrets//key.properties"
	if got := cfg.CredentialsPath("/work/app/android"); got != "/secrets/key.properties" {
		t.Errorf("CredentialsPath() = %q", got)
	}
}
