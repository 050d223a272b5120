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

package flutter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signalgame/android-signing/pkg/config"
)

const pubspecYAML = `name: pet_shelter_rush
description: Run the shelter.
version: 1.4.2+17

environment:
  sdk: ">=3.3.0 <4.0.0"

dependencies:
  flutter:
    sdk: flutter
`

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantCode int
		wantErr  bool
	}{
		{input: "1.4.2+17", wantName: "1.4.2", wantCode: 17},
		{input: "2.0.0", wantName: "2.0.0", wantCode: 1},
		{input: " 3.1.0+2 ", wantName: "3.1.0", wantCode: 2},
		{input: "1.0.0-beta.1+5", wantName: "1.0.0-beta.1", wantCode: 5},
		{input: "1.0.0+abc", wantErr: true},
		{input: "1.0.0+0", wantErr: true},
		{input: "+3", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, code, err := ParseVersion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if name != tt.wantName || code != tt.wantCode {
				t.Errorf("ParseVersion(%q) = %q, %d; want %q, %d", tt.input, name, code, tt.wantName, tt.wantCode)
			}
		})
	}
}

func TestParsePubspec(t *testing.T) {
	p, err := ParsePubspec([]byte(pubspecYAML))
	if err != nil {
		t.Fatalf("ParsePubspec() error = %v", err)
	}
	if p.Name != "pet_shelter_rush" || p.Version != "1.4.2+17" {
		t.Errorf("ParsePubspec() = %+v", p)
	}
	if p.Environment["sdk"] != ">=3.3.0 <4.0.0" {
		t.Errorf("Environment = %v", p.Environment)
	}

	if _, err := ParsePubspec([]byte("name: [unterminated")); err == nil {
		t.Error("ParsePubspec() accepted malformed YAML")
	}
}

func TestCompute(t *testing.T) {
	defaults := config.Default().Framework
	pubspec := &Pubspec{Name: "pet_shelter_rush", Version: "1.4.2+17"}

	tests := []struct {
		name    string
		pubspec *Pubspec
		local   map[string]string
		want    Values
		wantErr bool
	}{
		{
			name:    "pubspec only",
			pubspec: pubspec,
			want:    Values{VersionName: "1.4.2", VersionCode: 17, CompileSdk: 35, TargetSdk: 35, MinSdk: 21, NdkVersion: "27.0.12077973", ProjectName: "pet_shelter_rush"},
		},
		{
			name: "no pubspec",
			want: Values{VersionName: DefaultVersionName, VersionCode: DefaultVersionCode, CompileSdk: 35, TargetSdk: 35, MinSdk: 21, NdkVersion: "27.0.12077973"},
		},
		{
			name:    "local overrides",
			pubspec: pubspec,
			local: map[string]string{
				PropVersionName:       "1.5.0",
				PropVersionCode:       "20",
				PropMinSdkVersion:     "24",
				PropCompileSdkVersion: "36",
				PropNdkVersion:        "28.0.1",
				PropSDK:               "/opt/flutter",
			},
			want: Values{VersionName: "1.5.0", VersionCode: 20, CompileSdk: 36, TargetSdk: 35, MinSdk: 24, NdkVersion: "28.0.1", SDKPath: "/opt/flutter", ProjectName: "pet_shelter_rush"},
		},
		{
			name:    "bad local version code",
			pubspec: pubspec,
			local:   map[string]string{PropVersionCode: "twenty"},
			wantErr: true,
		},
		{
			name:    "bad local sdk",
			local:   map[string]string{PropTargetSdkVersion: "latest"},
			wantErr: true,
		},
		{
			name:    "bad pubspec version",
			pubspec: &Pubspec{Version: "1.0+x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.pubspec, tt.local, defaults)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if *got != tt.want {
				t.Errorf("Compute() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	flutterRoot := t.TempDir()
	androidRoot := filepath.Join(flutterRoot, "android")
	if err := os.MkdirAll(filepath.Join(androidRoot, AppModuleDir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(flutterRoot, PubspecFileName), []byte(pubspecYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	local := "flutter.sdk=/opt/flutter\nflutter.versionCode=18\n"
	if err := os.WriteFile(filepath.Join(androidRoot, LocalPropertiesFileName), []byte(local), 0o600); err != nil {
		t.Fatal(err)
	}

	v, err := Resolve(androidRoot, "../..", config.Default().Framework)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if v.VersionName != "1.4.2" || v.VersionCode != 18 || v.SDKPath != "/opt/flutter" {
		t.Errorf("Resolve() = %+v", v)
	}
}

func TestResolveWithoutFiles(t *testing.T) {
	v, err := Resolve(t.TempDir(), "../..", config.Default().Framework)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if v.VersionName != DefaultVersionName || v.ProjectName != "" {
		t.Errorf("Resolve() = %+v", v)
	}
}

func TestSourceDir(t *testing.T) {
	if got := SourceDir("/w/game/android", "../.."); got != "/w/game" {
		t.Errorf("SourceDir() = %q", got)
	}
	if got := SourceDir("/w/game/android", "/src//game"); got != "/src/game" {
		t.Errorf("SourceDir() = %q", got)
	}
}
