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

package keystore

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	protocommon "github.com/sigstore/protobuf-specs/gen/pb-go/common/v1"
	"github.com/sigstore/sigstore/pkg/cryptoutils"
	sigstoresig "github.com/sigstore/sigstore/pkg/signature"
)

// probeMessage is signed and verified by Probe.
var probeMessage = []byte("android-signing probe")

// Key is a private key entry extracted from a keystore.
type Key struct {
	Alias       string
	Signer      crypto.Signer
	Certificate *x509.Certificate
	Chain       []*x509.Certificate
	Algorithm   protocommon.PublicKeyDetails
}

// KeyType returns the top-level algorithm name (RSA, ECDSA, ED25519).
func (k *Key) KeyType() string {
	details, err := sigstoresig.GetAlgorithmDetails(k.Algorithm)
	if err != nil {
		return ""
	}
	return KeyTypeToString(details.GetKeyType())
}

// Fingerprint returns the SHA-256 certificate fingerprint in the colon
// separated form printed by keytool.
func (k *Key) Fingerprint() string {
	sum := sha256.Sum256(k.Certificate.Raw)
	hexed := strings.ToUpper(hex.EncodeToString(sum[:]))
	parts := make([]string, 0, len(sum))
	for i := 0; i < len(hexed); i += 2 {
		parts = append(parts, hexed[i:i+2])
	}
	return strings.Join(parts, ":")
}

// PublicKeyPEM returns the public key in PEM format.
func (k *Key) PublicKeyPEM() (string, error) {
	pem, err := cryptoutils.MarshalPublicKeyToPEM(k.Signer.Public())
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key to PEM: %w", err)
	}
	return string(pem), nil
}

// ValidAt reports whether the certificate is valid at t.
func (k *Key) ValidAt(t time.Time) bool {
	return !t.Before(k.Certificate.NotBefore) && !t.After(k.Certificate.NotAfter)
}

// Probe signs a fixed message with the private key and verifies it with the
// certificate's public key. It fails when the key does not match the
// certificate or cannot sign.
func (k *Key) Probe() error {
	details, err := sigstoresig.GetAlgorithmDetails(k.Algorithm)
	if err != nil {
		return fmt.Errorf("failed to get algorithm details: %w", err)
	}
	hash := details.GetHashType()

	signer, err := sigstoresig.LoadSigner(k.Signer, hash)
	if err != nil {
		return fmt.Errorf("loading signer: %w", err)
	}
	sig, err := signer.SignMessage(bytes.NewReader(probeMessage))
	if err != nil {
		return fmt.Errorf("signing probe message: %w", err)
	}

	verifier, err := sigstoresig.LoadVerifier(k.Certificate.PublicKey, hash)
	if err != nil {
		return fmt.Errorf("loading certificate verifier: %w", err)
	}
	if err := verifier.VerifySignature(bytes.NewReader(sig), bytes.NewReader(probeMessage)); err != nil {
		return fmt.Errorf("private key does not match certificate: %w", err)
	}
	return nil
}

// GetPublicKeyDetails determines the PublicKeyDetails enum for a public key.
// ECDSA (P-256, P-384), RSA and Ed25519 keys are supported.
func GetPublicKeyDetails(pubKey crypto.PublicKey) (protocommon.PublicKeyDetails, error) {
	switch k := pubKey.(type) {
	case *ecdsa.PublicKey:
		switch k.Curve {
		case elliptic.P256():
			return protocommon.PublicKeyDetails_PKIX_ECDSA_P256_SHA_256, nil
		case elliptic.P384():
			return protocommon.PublicKeyDetails_PKIX_ECDSA_P384_SHA_384, nil
		default:
			return 0, fmt.Errorf("unsupported ECDSA curve: %s", k.Curve.Params().Name)
		}
	case *rsa.PublicKey:
		bitSize := k.N.BitLen()
		switch {
		case bitSize <= 2048:
			return protocommon.PublicKeyDetails_PKIX_RSA_PKCS1V15_2048_SHA256, nil
		case bitSize <= 3072:
			return protocommon.PublicKeyDetails_PKIX_RSA_PKCS1V15_3072_SHA256, nil
		default:
			return protocommon.PublicKeyDetails_PKIX_RSA_PKCS1V15_4096_SHA256, nil
		}
	case ed25519.PublicKey:
		return protocommon.PublicKeyDetails_PKIX_ED25519, nil
	default:
		return 0, fmt.Errorf("unsupported key type: %T", pubKey)
	}
}

// KeyTypeToString converts a signature.PublicKeyType to its name.
func KeyTypeToString(keyType sigstoresig.PublicKeyType) string {
	switch keyType {
	case sigstoresig.ECDSA:
		return "ECDSA"
	case sigstoresig.RSA:
		return "RSA"
	case sigstoresig.ED25519:
		return "ED25519"
	default:
		return ""
	}
}
