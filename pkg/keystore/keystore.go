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

// Package keystore opens Android signing keystores (JKS and PKCS#12) and
// extracts the signing key for an alias.
package keystore

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	jks "github.com/pavlo-v-chernykh/keystore-go/v4"
	"software.sslmate.com/src/go-pkcs12"
)

var (
	// ErrWrongPassword is returned when the store or key password is rejected.
	ErrWrongPassword = errors.New("password rejected")
	// ErrAliasNotFound is returned when no private key entry exists for an alias.
	ErrAliasNotFound = errors.New("alias not found")
	// ErrUnsupportedFormat is returned for keystore types that cannot be read.
	ErrUnsupportedFormat = errors.New("unsupported keystore format")
	// ErrNoCertificate is returned when a key entry carries no certificate.
	ErrNoCertificate = errors.New("key entry has no certificate")
)

// Format identifies the keystore container.
type Format int

const (
	FormatUnknown Format = iota
	FormatJKS
	FormatPKCS12
)

func (f Format) String() string {
	switch f {
	case FormatJKS:
		return "JKS"
	case FormatPKCS12:
		return "PKCS12"
	default:
		return "unknown"
	}
}

const (
	magicJKS   uint32 = 0xFEEDFEED
	magicJCEKS uint32 = 0xCECECECE
)

// Keystore is an opened keystore whose store password has been verified.
type Keystore struct {
	format Format

	jks jks.KeyStore

	p12Key      interface{}
	p12Cert     *x509.Certificate
	p12Chain    []*x509.Certificate
	p12Password string
}

// Open reads and decodes the keystore at path.
func Open(path, storePassword string) (*Keystore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keystore: %w", err)
	}
	return Load(data, storePassword)
}

// DetectFormat inspects the leading bytes of a keystore.
func DetectFormat(data []byte) (Format, error) {
	if len(data) >= 4 {
		switch binary.BigEndian.Uint32(data[:4]) {
		case magicJKS:
			return FormatJKS, nil
		case magicJCEKS:
			return FormatUnknown, fmt.Errorf("%w: JCEKS", ErrUnsupportedFormat)
		}
	}
	// PKCS#12 is a DER SEQUENCE.
	if len(data) > 0 && data[0] == 0x30 {
		return FormatPKCS12, nil
	}
	return FormatUnknown, ErrUnsupportedFormat
}

// Load decodes keystore bytes, verifying the store password.
func Load(data []byte, storePassword string) (*Keystore, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJKS:
		ks := jks.New()
		if err := ks.Load(bytes.NewReader(data), []byte(storePassword)); err != nil {
			return nil, classifyJKSError("store", err)
		}
		return &Keystore{format: FormatJKS, jks: ks}, nil
	default:
		key, cert, chain, err := pkcs12.DecodeChain(data, storePassword)
		if err != nil {
			if errors.Is(err, pkcs12.ErrIncorrectPassword) {
				return nil, fmt.Errorf("store %w", ErrWrongPassword)
			}
			return nil, fmt.Errorf("decoding PKCS12 keystore: %w", err)
		}
		return &Keystore{
			format:      FormatPKCS12,
			p12Key:      key,
			p12Cert:     cert,
			p12Chain:    chain,
			p12Password: storePassword,
		}, nil
	}
}

// classifyJKSError maps keystore-go integrity failures onto ErrWrongPassword.
// keystore-go reports a bad password as a digest mismatch.
func classifyJKSError(what string, err error) error {
	if strings.Contains(err.Error(), "digest") {
		return fmt.Errorf("%s %w: %v", what, ErrWrongPassword, err)
	}
	return fmt.Errorf("decoding JKS keystore: %w", err)
}

// Format returns the container format.
func (k *Keystore) Format() Format {
	return k.format
}

// Aliases lists private key aliases. PKCS#12 stores hold a single unnamed key
// and report no aliases.
func (k *Keystore) Aliases() []string {
	if k.format != FormatJKS {
		return nil
	}
	var aliases []string
	for _, a := range k.jks.Aliases() {
		if k.jks.IsPrivateKeyEntry(a) {
			aliases = append(aliases, a)
		}
	}
	sort.Strings(aliases)
	return aliases
}

// Key returns the signing key for alias. For PKCS#12 stores the alias is not
// matched and the store's single key is returned; keytool ties a PKCS#12 key
// password to the store password, so any other key password is rejected.
func (k *Keystore) Key(alias, keyPassword string) (*Key, error) {
	switch k.format {
	case FormatJKS:
		return k.jksKey(alias, keyPassword)
	case FormatPKCS12:
		if keyPassword != k.p12Password {
			return nil, fmt.Errorf("key %w: PKCS12 key password must equal the store password", ErrWrongPassword)
		}
		return newKey(alias, k.p12Key, k.p12Cert, k.p12Chain)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func (k *Keystore) jksKey(alias, keyPassword string) (*Key, error) {
	if !k.jks.IsPrivateKeyEntry(alias) {
		return nil, fmt.Errorf("%w: %q", ErrAliasNotFound, alias)
	}
	entry, err := k.jks.GetPrivateKeyEntry(alias, []byte(keyPassword))
	if err != nil {
		return nil, classifyJKSError("key", err)
	}

	priv, err := x509.ParsePKCS8PrivateKey(entry.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parsing private key for %q: %w", alias, err)
	}

	if len(entry.CertificateChain) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoCertificate, alias)
	}
	certs := make([]*x509.Certificate, 0, len(entry.CertificateChain))
	for i, c := range entry.CertificateChain {
		cert, err := x509.ParseCertificate(c.Content)
		if err != nil {
			return nil, fmt.Errorf("parsing certificate %d for %q: %w", i, alias, err)
		}
		certs = append(certs, cert)
	}
	return newKey(alias, priv, certs[0], certs[1:])
}

func newKey(alias string, priv interface{}, cert *x509.Certificate, chain []*x509.Certificate) (*Key, error) {
	signer, ok := priv.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("private key for %q does not implement crypto.Signer", alias)
	}
	if cert == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoCertificate, alias)
	}

	algorithm, err := GetPublicKeyDetails(signer.Public())
	if err != nil {
		return nil, err
	}

	return &Key{
		Alias:       alias,
		Signer:      signer,
		Certificate: cert,
		Chain:       chain,
		Algorithm:   algorithm,
	}, nil
}
