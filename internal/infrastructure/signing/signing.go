// Package signing signs and verifies manifests with ed25519 keys in
// OpenSSH encoding, so keys made with ssh-keygen -t ed25519 work as-is.
package signing

import (
	"crypto/ed25519"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"

	"github.com/slicerhub/slicerhub/internal/domain/entities"
)

// Signer produces detached ed25519 signatures.
type Signer struct {
	key ed25519.PrivateKey
}

// LoadSigner reads an OpenSSH-encoded ed25519 private key from path.
func LoadSigner(path string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading signing key: %w", err)
	}
	raw, err := ssh.ParseRawPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("parsing signing key %s: %w", path, err)
	}
	switch key := raw.(type) {
	case ed25519.PrivateKey:
		return &Signer{key: key}, nil
	case *ed25519.PrivateKey:
		return &Signer{key: *key}, nil
	default:
		return nil, fmt.Errorf("signing key %s: want ed25519, got %T", path, raw)
	}
}

// NewSigner wraps an in-memory key, mostly for tests.
func NewSigner(key ed25519.PrivateKey) *Signer {
	return &Signer{key: key}
}

// Sign returns the detached signature over data.
func (s *Signer) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(s.key, data), nil
}

// PublicKey returns the authorized_keys line for the signing key, for
// operators distributing the verification key out of band.
func (s *Signer) PublicKey() ([]byte, error) {
	pub, err := ssh.NewPublicKey(s.key.Public())
	if err != nil {
		return nil, err
	}
	return ssh.MarshalAuthorizedKey(pub), nil
}

// Verifier checks detached ed25519 signatures.
type Verifier struct {
	key ed25519.PublicKey
}

// LoadVerifier reads an ed25519 public key in authorized_keys format.
func LoadVerifier(path string) (*Verifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	pub, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return nil, fmt.Errorf("parsing public key %s: %w", path, err)
	}
	cpk, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return nil, fmt.Errorf("public key %s: unsupported key type %s", path, pub.Type())
	}
	key, ok := cpk.CryptoPublicKey().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key %s: want ed25519, got %s", path, pub.Type())
	}
	return &Verifier{key: key}, nil
}

// NewVerifier wraps an in-memory public key.
func NewVerifier(key ed25519.PublicKey) *Verifier {
	return &Verifier{key: key}
}

// Verify checks signature over data.
func (v *Verifier) Verify(data, signature []byte) error {
	if len(signature) != ed25519.SignatureSize {
		return &entities.SignatureInvalidError{
			Reason: fmt.Sprintf("signature is %d bytes, want %d", len(signature), ed25519.SignatureSize),
		}
	}
	if !ed25519.Verify(v.key, data, signature) {
		return &entities.SignatureInvalidError{Reason: "manifest signature does not match"}
	}
	return nil
}
