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
	"errors"
	"fmt"
)

// ErrorType represents the category of a signing failure.
type ErrorType int

const (
	// ErrTypeUnknown indicates an unclassified error.
	ErrTypeUnknown ErrorType = iota

	// ErrTypeCredentialsAbsent indicates the credentials file is missing
	// while the policy requires release signing.
	ErrTypeCredentialsAbsent

	// ErrTypeMissingCredential indicates one or more identity fields are absent.
	ErrTypeMissingCredential

	// ErrTypeKeystoreNotFound indicates the store file does not exist.
	ErrTypeKeystoreNotFound

	// ErrTypeKeystoreFormat indicates the store file could not be decoded.
	ErrTypeKeystoreFormat

	// ErrTypeWrongPassword indicates the store or key password was rejected.
	ErrTypeWrongPassword

	// ErrTypeAliasNotFound indicates the keystore has no key entry for the alias.
	ErrTypeAliasNotFound

	// ErrTypeConfiguration indicates a configuration error.
	ErrTypeConfiguration

	// ErrTypeIO indicates an I/O error.
	ErrTypeIO
)

// String returns a human-readable name for the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeCredentialsAbsent:
		return "CredentialsAbsent"
	case ErrTypeMissingCredential:
		return "MissingCredential"
	case ErrTypeKeystoreNotFound:
		return "KeystoreNotFound"
	case ErrTypeKeystoreFormat:
		return "KeystoreFormat"
	case ErrTypeWrongPassword:
		return "WrongPassword"
	case ErrTypeAliasNotFound:
		return "AliasNotFound"
	case ErrTypeConfiguration:
		return "ConfigurationError"
	case ErrTypeIO:
		return "IOError"
	default:
		return "UnknownError"
	}
}

// Process exit codes for signing failures.
const (
	ExitCodeFailure     = 1
	ExitCodeCredentials = 2
	ExitCodeKeystore    = 3
)

// ExitCode maps the error type onto a process exit code.
func (e ErrorType) ExitCode() int {
	switch e {
	case ErrTypeCredentialsAbsent, ErrTypeMissingCredential:
		return ExitCodeCredentials
	case ErrTypeKeystoreNotFound, ErrTypeKeystoreFormat, ErrTypeWrongPassword, ErrTypeAliasNotFound:
		return ExitCodeKeystore
	default:
		return ExitCodeFailure
	}
}

// SigningError is a structured error for resolution and signing-time failures.
//
//	if serr, ok := signing.As(err); ok {
//	    log.Printf("type=%s path=%s", serr.Type, serr.Path)
//	}
//
//nolint:revive
type SigningError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType

	// Path is the file path or field name related to the error (optional).
	Path string

	// Message is a human-readable description of what went wrong.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *SigningError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path: %s)", e.Path)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *SigningError) Unwrap() error {
	return e.Cause
}

// ExitCode implements the exit coder contract used by the CLI.
func (e *SigningError) ExitCode() int {
	return e.Type.ExitCode()
}

// NewSigningError creates a new signing error.
func NewSigningError(errType ErrorType, message string, cause error) *SigningError {
	return &SigningError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewSigningErrorWithPath creates a new signing error with a path.
func NewSigningErrorWithPath(errType ErrorType, path, message string, cause error) *SigningError {
	return &SigningError{
		Type:    errType,
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// IsType checks if err is (or wraps) a SigningError of the given type.
func IsType(err error, errType ErrorType) bool {
	serr, ok := As(err)
	return ok && serr.Type == errType
}

// As returns the first SigningError in err's chain.
func As(err error) (*SigningError, bool) {
	var serr *SigningError
	if errors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}
