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

// Package signing selects the signing identity for Android build types and
// performs the signing-time checks that the packaging step would otherwise
// report late.
package signing

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/signalgame/android-signing/pkg/credentials"
	"github.com/signalgame/android-signing/pkg/logging"
)

// Policy controls what a release build does when no credentials file exists.
type Policy int

const (
	// PolicyFallbackToDebug signs release builds with the debug identity when
	// the credentials file is absent.
	PolicyFallbackToDebug Policy = iota
	// PolicyRequireRelease fails resolution when the credentials file is absent.
	PolicyRequireRelease
)

// String returns the configuration spelling of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyFallbackToDebug:
		return "fallback-to-debug"
	case PolicyRequireRelease:
		return "require-release"
	default:
		return "unknown"
	}
}

// ParsePolicy parses the configuration spelling of a policy. The empty string
// selects PolicyFallbackToDebug.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fallback-to-debug", "fallback":
		return PolicyFallbackToDebug, nil
	case "require-release", "require", "strict":
		return PolicyRequireRelease, nil
	default:
		return 0, fmt.Errorf("unknown signing policy %q (want fallback-to-debug or require-release)", s)
	}
}

// Resolver selects the identity used by release builds.
type Resolver struct {
	// ProjectRoot anchors relative store file paths.
	ProjectRoot string
	// Debug is the identity used when falling back.
	Debug DebugIdentity
	// Policy decides what an absent credentials file means.
	Policy Policy
	// Logger receives the fallback warning. Nil uses a default logger.
	Logger logging.Logger
}

// Resolve returns the release build's identity. creds is nil when the
// credentials file does not exist.
//
// With credentials, a ReleaseIdentity carrying exactly the parsed fields is
// returned and missing fields stay absent. Without credentials the debug
// identity is returned, unless Policy is PolicyRequireRelease, in which case
// a CredentialsAbsent error is returned.
func (r *Resolver) Resolve(creds *credentials.Credentials) (Identity, error) {
	logger := logging.EnsureLogger(r.Logger)

	if creds == nil {
		if r.Policy == PolicyRequireRelease {
			return nil, NewSigningError(ErrTypeCredentialsAbsent,
				"release signing credentials are required but no credentials file was found", nil)
		}
		logger.WithField("variant", VariantDebug.String()).
			Warnln("no release credentials file found; release build will be signed with the debug identity")
		return r.Debug, nil
	}

	id := ReleaseIdentity{
		KeyAlias:      creds.KeyAlias,
		KeyPassword:   creds.KeyPassword,
		StorePassword: creds.StorePassword,
	}
	if creds.StoreFile != nil {
		path := r.storePath(*creds.StoreFile)
		id.StoreFile = &path
	}

	if missing := creds.Missing(); len(missing) > 0 {
		logger.Debug("credentials from %s lack %s", creds.Source, strings.Join(missing, ", "))
	}
	return id, nil
}

// storePath resolves a store file value against the project root. Absolute
// values are only cleaned.
func (r *Resolver) storePath(value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(r.ProjectRoot, value)
}
