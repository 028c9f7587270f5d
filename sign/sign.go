package sign

import (
	"errors"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

var (
	// ErrNoSigningKey indicates the keyring holds no usable private key.
	ErrNoSigningKey = errors.New("no private key found in keyring")

	// ErrKeyEncrypted indicates the private key needs a passphrase.
	ErrKeyEncrypted = errors.New("private key is encrypted and no passphrase was given")
)

// Signer signs artifacts with a PGP private key.
type Signer struct {
	entity *openpgp.Entity
}

// NewSigner wraps an entity whose private key is ready for signing.
func NewSigner(entity *openpgp.Entity) (*Signer, error) {
	if entity == nil || entity.PrivateKey == nil {
		return nil, ErrNoSigningKey
	}
	if entity.PrivateKey.Encrypted {
		return nil, ErrKeyEncrypted
	}
	return &Signer{entity: entity}, nil
}

// LoadKeyFile reads a private key from an armored or binary keyring
// file. passphrase decrypts the key when it is protected; pass ""
// for an unprotected key.
func LoadKeyFile(path, passphrase string) (*Signer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open key file: %w", err)
	}
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return nil, fmt.Errorf("reset key file: %w", seekErr)
		}
		entities, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return nil, fmt.Errorf("read key file: %w", err)
		}
	}

	for _, entity := range entities {
		if entity.PrivateKey == nil {
			continue
		}
		if entity.PrivateKey.Encrypted {
			if passphrase == "" {
				return nil, ErrKeyEncrypted
			}
			if err := entity.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return nil, fmt.Errorf("decrypt private key: %w", err)
			}
		}
		return &Signer{entity: entity}, nil
	}

	return nil, ErrNoSigningKey
}

// Identity returns the primary user identity of the signing key.
func (s *Signer) Identity() string {
	for name := range s.entity.Identities {
		return name
	}
	return ""
}

// Entity exposes the signing entity, mainly so callers can verify
// what they just signed.
func (s *Signer) Entity() *openpgp.Entity {
	return s.entity
}

// SignArtifact writes an armored detached signature for the file at
// path and returns the signature path (<path>.asc).
func (s *Signer) SignArtifact(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	sigPath := path + ".asc"
	out, err := os.Create(sigPath)
	if err != nil {
		return "", fmt.Errorf("create signature file: %w", err)
	}

	if err := openpgp.ArmoredDetachSign(out, s.entity, f, nil); err != nil {
		out.Close()
		os.Remove(sigPath)
		return "", fmt.Errorf("sign %s: %w", path, err)
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close signature file: %w", err)
	}
	return sigPath, nil
}

// SignAll signs every artifact and returns the signature paths in the
// same order.
func (s *Signer) SignAll(paths []string) ([]string, error) {
	sigs := make([]string, 0, len(paths))
	for _, path := range paths {
		sig, err := s.SignArtifact(path)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

// Verify checks an armored detached signature against the file at
// path using the given keyring.
func Verify(keyring openpgp.EntityList, path, sigPath string) error {
	data, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer data.Close()

	sig, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sig.Close()

	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, data, sig, nil); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}
