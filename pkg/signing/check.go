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
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/signalgame/android-signing/pkg/keystore"
	"github.com/signalgame/android-signing/pkg/logging"
	"github.com/signalgame/android-signing/pkg/tracing"
)

// PlayMinimumValidity is the date a Play Store upload certificate must
// remain valid past.
var PlayMinimumValidity = time.Date(2033, time.October, 22, 0, 0, 0, 0, time.UTC)

// KeystoreOpener opens a keystore file with its store password.
type KeystoreOpener func(path, storePassword string) (*keystore.Keystore, error)

// CheckOptions configures Check.
type CheckOptions struct {
	// Open opens keystores. Nil uses keystore.Open.
	Open KeystoreOpener
	// Now returns the time certificates are validated against. Nil uses time.Now.
	Now func() time.Time
	// ReleaseBuild marks the identity as the one assigned to a release build.
	ReleaseBuild bool
	// Logger receives progress messages. Nil uses a default logger.
	Logger logging.Logger
}

// CheckResult describes a signing identity that passed the signing-time checks.
type CheckResult struct {
	Variant     string    `json:"variant"`
	StoreFile   string    `json:"storeFile"`
	Format      string    `json:"format"`
	Alias       string    `json:"alias"`
	KeyType     string    `json:"keyType"`
	Algorithm   string    `json:"algorithm"`
	Subject     string    `json:"subject"`
	Fingerprint string    `json:"sha256Fingerprint"`
	NotBefore   time.Time `json:"notBefore"`
	NotAfter    time.Time `json:"notAfter"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// Check performs the checks the packaging step applies when it signs with
// id: all four fields present, the store file exists and opens with the
// store password, the alias names a private key the key password unlocks,
// and the key signs a probe message its certificate verifies.
//
// Failures are returned as *SigningError.
func Check(ctx context.Context, id Identity, opts CheckOptions) (*CheckResult, error) {
	var result *CheckResult
	attrs := map[string]interface{}{"variant": id.Variant().String()}
	err := tracing.Run(ctx, "signing.Check", attrs, func(ctx context.Context) error {
		var err error
		result, err = check(ctx, id, opts)
		return err
	})
	return result, err
}

func check(ctx context.Context, id Identity, opts CheckOptions) (*CheckResult, error) {
	logger := logging.EnsureLogger(opts.Logger).WithField("variant", id.Variant().String())
	open := opts.Open
	if open == nil {
		open = keystore.Open
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	f := id.Fields()
	if missing := missingFields(f); len(missing) > 0 {
		return nil, NewSigningErrorWithPath(ErrTypeMissingCredential, strings.Join(missing, ","),
			"signing identity is incomplete", nil)
	}
	storeFile := *f.StoreFile

	if err := ctx.Err(); err != nil {
		return nil, NewSigningErrorWithPath(ErrTypeIO, storeFile, "check canceled", err)
	}

	info, err := os.Stat(storeFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, NewSigningErrorWithPath(ErrTypeKeystoreNotFound, storeFile, "keystore file does not exist", nil)
	case err != nil:
		return nil, NewSigningErrorWithPath(ErrTypeIO, storeFile, "cannot stat keystore file", err)
	case info.IsDir():
		return nil, NewSigningErrorWithPath(ErrTypeKeystoreNotFound, storeFile, "keystore path is a directory", nil)
	}

	logger.Debug("opening keystore %s", storeFile)
	ks, err := open(storeFile, *f.StorePassword)
	if err != nil {
		return nil, keystoreError(storeFile, "store", err)
	}

	key, err := ks.Key(*f.KeyAlias, *f.KeyPassword)
	if err != nil {
		return nil, keystoreError(storeFile, "key", err)
	}

	if err := key.Probe(); err != nil {
		return nil, NewSigningErrorWithPath(ErrTypeKeystoreFormat, storeFile, "probe signature failed", err)
	}

	result := &CheckResult{
		Variant:     id.Variant().String(),
		StoreFile:   storeFile,
		Format:      ks.Format().String(),
		Alias:       *f.KeyAlias,
		KeyType:     key.KeyType(),
		Algorithm:   key.Algorithm.String(),
		Subject:     key.Certificate.Subject.String(),
		Fingerprint: key.Fingerprint(),
		NotBefore:   key.Certificate.NotBefore,
		NotAfter:    key.Certificate.NotAfter,
	}
	result.Warnings = warnings(id, key, now(), opts.ReleaseBuild)
	for _, w := range result.Warnings {
		logger.Warnln(w)
	}
	logger.Info("signing identity %s verified (%s)", result.Alias, result.Fingerprint)
	return result, nil
}

func missingFields(f Fields) []string {
	var missing []string
	if f.KeyAlias == nil {
		missing = append(missing, "keyAlias")
	}
	if f.KeyPassword == nil {
		missing = append(missing, "keyPassword")
	}
	if f.StoreFile == nil {
		missing = append(missing, "storeFile")
	}
	if f.StorePassword == nil {
		missing = append(missing, "storePassword")
	}
	return missing
}

// keystoreError maps keystore package errors onto SigningError types.
func keystoreError(path, stage string, err error) *SigningError {
	switch {
	case errors.Is(err, keystore.ErrWrongPassword):
		return NewSigningErrorWithPath(ErrTypeWrongPassword, path, stage+" password rejected", err)
	case errors.Is(err, keystore.ErrAliasNotFound):
		return NewSigningErrorWithPath(ErrTypeAliasNotFound, path, "no private key entry for alias", err)
	case errors.Is(err, keystore.ErrUnsupportedFormat), errors.Is(err, keystore.ErrNoCertificate):
		return NewSigningErrorWithPath(ErrTypeKeystoreFormat, path, "keystore cannot be used for signing", err)
	case errors.Is(err, fs.ErrNotExist):
		return NewSigningErrorWithPath(ErrTypeKeystoreNotFound, path, "keystore file does not exist", err)
	default:
		return NewSigningErrorWithPath(ErrTypeKeystoreFormat, path, fmt.Sprintf("cannot read %s entry", stage), err)
	}
}

func warnings(id Identity, key *keystore.Key, now time.Time, releaseBuild bool) []string {
	var out []string
	if releaseBuild && id.Variant() == VariantDebug {
		out = append(out, "release build is signed with the debug identity and cannot be published")
	}
	cert := key.Certificate
	switch {
	case now.Before(cert.NotBefore):
		out = append(out, fmt.Sprintf("certificate is not valid until %s", cert.NotBefore.UTC().Format(time.RFC3339)))
	case now.After(cert.NotAfter):
		out = append(out, fmt.Sprintf("certificate expired on %s", cert.NotAfter.UTC().Format(time.RFC3339)))
	}
	if releaseBuild && id.Variant() == VariantRelease && cert.NotAfter.Before(PlayMinimumValidity) {
		out = append(out, fmt.Sprintf("certificate expires before %s; Google Play rejects such upload keys",
			PlayMinimumValidity.Format("2006-01-02")))
	}
	return out
}
