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
	"sync"

	"github.com/google/uuid"

	"github.com/signalgame/android-signing/pkg/credentials"
)

// Evaluation is a single build configuration pass. The release identity is
// selected on first use and fixed for the lifetime of the Evaluation.
type Evaluation struct {
	// ID identifies the pass in logs and reports.
	ID string

	resolver *Resolver
	creds    *credentials.Credentials

	once     sync.Once
	identity Identity
	err      error
}

// NewEvaluation starts a pass over already-loaded credentials. creds is nil
// when the credentials file is absent.
func NewEvaluation(resolver *Resolver, creds *credentials.Credentials) *Evaluation {
	return &Evaluation{
		ID:       uuid.NewString(),
		resolver: resolver,
		creds:    creds,
	}
}

// Release returns the release build identity, resolving it once.
func (e *Evaluation) Release() (Identity, error) {
	e.once.Do(func() {
		e.identity, e.err = e.resolver.Resolve(e.creds)
	})
	return e.identity, e.err
}

// Debug returns the debug build identity. Debug builds are always signed with
// the platform debug identity.
func (e *Evaluation) Debug() Identity {
	return e.resolver.Debug
}

// CredentialsPresent reports whether the pass saw a credentials file.
func (e *Evaluation) CredentialsPresent() bool {
	return e.creds != nil
}

// Credentials returns the credentials the pass was started with.
func (e *Evaluation) Credentials() *credentials.Credentials {
	return e.creds
}
