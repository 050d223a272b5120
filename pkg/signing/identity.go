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

package signing

import (
	"os"
	"path/filepath"
)

// Variant names which kind of identity a build is signed with.
type Variant int

const (
	// VariantRelease is an identity built from the credentials file.
	VariantRelease Variant = iota
	// VariantDebug is the platform debug identity.
	VariantDebug
)

// String returns the signing config name Gradle uses for the variant.
func (v Variant) String() string {
	switch v {
	case VariantRelease:
		return "release"
	case VariantDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Identity is the signing identity assigned to a build type. It is either a
// ReleaseIdentity or a DebugIdentity.
type Identity interface {
	// Variant reports which kind of identity this is.
	Variant() Variant
	// Fields returns the four signing parameters; absent values are nil.
	Fields() Fields

	isIdentity()
}

// Fields is the flattened view of an identity.
type Fields struct {
	KeyAlias      *string `json:"keyAlias"`
	KeyPassword   *string `json:"keyPassword"`
	StoreFile     *string `json:"storeFile"`
	StorePassword *string `json:"storePassword"`
}

// ReleaseIdentity is built from the credentials file. Any field may be
// absent when the file lacked the key; that is only detected at signing time.
type ReleaseIdentity struct {
	KeyAlias      *string
	KeyPassword   *string
	StoreFile     *string // absolute path when present
	StorePassword *string
}

var _ Identity = ReleaseIdentity{}

func (ReleaseIdentity) Variant() Variant { return VariantRelease }

func (r ReleaseIdentity) Fields() Fields {
	return Fields{
		KeyAlias:      r.KeyAlias,
		KeyPassword:   r.KeyPassword,
		StoreFile:     r.StoreFile,
		StorePassword: r.StorePassword,
	}
}

func (ReleaseIdentity) isIdentity() {}

// Android debug keystore defaults, as created by the Android Gradle plugin.
const (
	DebugKeyAlias      = "androiddebugkey"
	DebugKeyPassword   = "android"
	DebugStorePassword = "android"
	DebugStoreFileName = "debug.keystore"

	androidUserHomeDir = ".android"
	envAndroidUserHome = "ANDROID_USER_HOME"
	envAndroidSDKHome  = "ANDROID_SDK_HOME"
)

// DebugIdentity is the platform debug identity. Its values are fixed apart
// from the keystore location, which depends on the Android user home.
type DebugIdentity struct {
	StoreFile string
}

var _ Identity = DebugIdentity{}

// NewDebugIdentity returns the debug identity whose keystore lives in
// androidUserHome. An empty androidUserHome uses DefaultAndroidUserHome.
func NewDebugIdentity(androidUserHome string) DebugIdentity {
	if androidUserHome == "" {
		androidUserHome = DefaultAndroidUserHome()
	}
	if androidUserHome == "" {
		androidUserHome = androidUserHomeDir
	}
	return DebugIdentity{StoreFile: filepath.Join(androidUserHome, DebugStoreFileName)}
}

// DefaultAndroidUserHome mirrors the Android tooling lookup order:
// $ANDROID_USER_HOME, then $ANDROID_SDK_HOME/.android, then ~/.android.
func DefaultAndroidUserHome() string {
	if v := os.Getenv(envAndroidUserHome); v != "" {
		return v
	}
	if v := os.Getenv(envAndroidSDKHome); v != "" {
		return filepath.Join(v, androidUserHomeDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, androidUserHomeDir)
	}
	return ""
}

func (DebugIdentity) Variant() Variant { return VariantDebug }

func (d DebugIdentity) Fields() Fields {
	alias, keyPassword, storePassword, storeFile := DebugKeyAlias, DebugKeyPassword, DebugStorePassword, d.StoreFile
	return Fields{
		KeyAlias:      &alias,
		KeyPassword:   &keyPassword,
		StoreFile:     &storeFile,
		StorePassword: &storePassword,
	}
}

func (DebugIdentity) isIdentity() {}
