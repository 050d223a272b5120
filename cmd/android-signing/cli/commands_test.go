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

package cli

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jks "github.com/pavlo-v-chernykh/keystore-go/v4"

	"github.com/signalgame/android-signing/pkg/report"
	"github.com/signalgame/android-signing/pkg/signing"
)

// project lays out a Flutter project with an android/ directory and returns
// the android directory.
func project(t *testing.T) string {
	t.Helper()
	t.Setenv("ANDROID_SIGNING_CONFIG", "")
	t.Setenv("ANDROID_USER_HOME", filepath.Join(t.TempDir(), "android-home"))

	root := t.TempDir()
	android := filepath.Join(root, "android")
	if err := os.MkdirAll(filepath.Join(android, "app"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "pubspec.yaml"), "name: pet_shelter_rush\nversion: 2.1.0+42\n")
	return android
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func writeKeystore(t *testing.T, path, alias, storePassword, keyPassword string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Pet Shelter Rush"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Date(2060, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	ks := jks.New()
	if err := ks.SetPrivateKeyEntry(alias, jks.PrivateKeyEntry{
		CreationTime:     time.Now(),
		PrivateKey:       pkcs8,
		CertificateChain: []jks.Certificate{{Type: "X509", Content: der}},
	}, []byte(keyPassword)); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := ks.Store(&buf, []byte(storePassword)); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buf.String())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log-level", "silent"))
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	android := project(t)
	writeFile(t, filepath.Join(android, "key.properties"),
		"storePassword=pw2\nkeyPassword=pw1\nkeyAlias=relkey\nstoreFile=my.jks\n")

	out, err := run(t, "resolve", "-C", android, "-o", "json", "--show-secrets")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}

	var got report.Resolution
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !got.CredentialsPresent || got.Identity.Variant != "release" {
		t.Errorf("resolution = %+v", got)
	}
	if *got.Identity.KeyAlias != "relkey" || *got.Identity.KeyPassword != "pw1" ||
		*got.Identity.StoreFile != filepath.Join(android, "my.jks") || *got.Identity.StorePassword != "pw2" {
		t.Errorf("identity = %+v", got.Identity)
	}
	if got.EvaluationID == "" {
		t.Error("missing evaluation id")
	}
}

func TestResolveCommandAttachedShortFlags(t *testing.T) {
	android := project(t)

	out, err := run(t, "resolve", "-C"+android, "-ojson")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	var got report.Resolution
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
}

func TestResolveCommandFallback(t *testing.T) {
	android := project(t)

	out, err := run(t, "resolve", "-C", android)
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	if !strings.Contains(out, signing.DebugKeyAlias) || !strings.Contains(out, "(not found)") {
		t.Errorf("resolve output = %s", out)
	}
}

func TestResolveCommandRequireRelease(t *testing.T) {
	android := project(t)

	_, err := run(t, "resolve", "-C", android, "--require-release-signing")
	if !signing.IsType(err, signing.ErrTypeCredentialsAbsent) {
		t.Fatalf("resolve error = %v, want CredentialsAbsent", err)
	}
	if serr, ok := signing.As(err); !ok || serr.ExitCode() != 2 {
		t.Errorf("exit code mismatch: %v", err)
	}
}

func TestResolveCommandPolicyFromConfig(t *testing.T) {
	android := project(t)
	writeFile(t, filepath.Join(android, "android-signing.yaml"), "signing:\n  policy: require-release\n")

	if _, err := run(t, "resolve", "-C", android); !signing.IsType(err, signing.ErrTypeCredentialsAbsent) {
		t.Fatalf("resolve error = %v, want CredentialsAbsent", err)
	}
}

func TestPlanCommand(t *testing.T) {
	android := project(t)
	writeFile(t, filepath.Join(android, "key.properties"), "keyAlias=relkey\nstoreFile=my.jks\n")
	writeFile(t, filepath.Join(android, "local.properties"), "flutter.minSdkVersion=23\n")

	out, err := run(t, "plan", "-C", android, "-o", "yaml")
	if err != nil {
		t.Fatalf("plan error = %v", err)
	}
	for _, want := range []string{
		"applicationId: com.petshelter.rushgame",
		"versionName: 2.1.0",
		"versionCode: 42",
		"minSdk: 23",
		"keyAlias: relkey",
		"keyAlias: androiddebugkey",
		"proguard-rules.pro",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plan output lacks %q:\n%s", want, out)
		}
	}
}

func TestCheckCommand(t *testing.T) {
	android := project(t)
	writeKeystore(t, filepath.Join(android, "upload.jks"), "upload", "storepw", "keypw")
	writeFile(t, filepath.Join(android, "key.properties"),
		"keyAlias=upload\nkeyPassword=keypw\nstoreFile=upload.jks\nstorePassword=storepw\n")

	out, err := run(t, "check", "-C", android, "-o", "json")
	if err != nil {
		t.Fatalf("check error = %v\n%s", err, out)
	}
	var got []report.CheckReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got) != 1 || !got[0].OK || got[0].Result.Alias != "upload" || got[0].Result.Format != "JKS" {
		t.Errorf("check reports = %+v", got)
	}
	if *got[0].Identity.StorePassword != "***" {
		t.Errorf("store password not masked: %q", *got[0].Identity.StorePassword)
	}
}

func TestCheckCommandFailures(t *testing.T) {
	tests := []struct {
		name     string
		props    string
		args     []string
		wantType signing.ErrorType
		wantCode int
	}{
		{
			name:     "missing credential",
			props:    "keyAlias=upload\nstoreFile=upload.jks\n",
			wantType: signing.ErrTypeMissingCredential,
			wantCode: 2,
		},
		{
			name:     "keystore missing",
			props:    "keyAlias=upload\nkeyPassword=k\nstoreFile=absent.jks\nstorePassword=s\n",
			wantType: signing.ErrTypeKeystoreNotFound,
			wantCode: 3,
		},
		{
			name:     "debug keystore missing",
			args:     []string{"--build-type", "debug"},
			wantType: signing.ErrTypeKeystoreNotFound,
			wantCode: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			android := project(t)
			if tt.props != "" {
				writeFile(t, filepath.Join(android, "key.properties"), tt.props)
			}
			args := append([]string{"check", "-C", android}, tt.args...)
			out, err := run(t, args...)
			if !signing.IsType(err, tt.wantType) {
				t.Fatalf("check error = %v, want %v", err, tt.wantType)
			}
			if serr, _ := signing.As(err); serr.ExitCode() != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", serr.ExitCode(), tt.wantCode)
			}
			if !strings.Contains(out, "FAILED") {
				t.Errorf("check output = %s", out)
			}
		})
	}
}

func TestCheckCommandUnknownBuildType(t *testing.T) {
	android := project(t)
	if _, err := run(t, "check", "-C", android, "--build-type", "profile"); err == nil {
		t.Error("unknown build type accepted")
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	android := project(t)
	if _, err := run(t, "resolve", "-C", android, "-o", "xml"); err == nil {
		t.Error("unknown output format accepted")
	}
}
