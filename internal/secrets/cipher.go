package secrets

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// NonceSize is the ChaCha20-Poly1305 nonce length (96 bits).
	NonceSize = chacha20poly1305.NonceSize

	// TagSize is the Poly1305 authentication tag length (128 bits).
	TagSize = chacha20poly1305.Overhead
)

var errNoKey = errors.New("no master key")

// NewNonce returns a fresh random nonce. Nonces are never derived from content.
func NewNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return nonce, nil
}

// Cipher is the entry AEAD keyed by one MasterKey. Build one per vault
// operation with NewCipher; each AEAD instance holds its own copy of the key.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher keys ChaCha20-Poly1305 with key.
func NewCipher(key *MasterKey) (*Cipher, error) {
	if key == nil {
		return nil, errNoKey
	}
	aead, err := chacha20poly1305.New(key.Bytes())
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Seal encrypts plaintext under nonce, returning ciphertext||tag.
func (c *Cipher) Seal(nonce, plaintext, ad []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", NonceSize, len(nonce))
	}
	return c.aead.Seal(nil, nonce, plaintext, ad), nil
}

// Open decrypts ciphertext||tag. Any verification failure is ErrAuthentication;
// it is the only signal for a wrong passphrase.
func (c *Cipher) Open(nonce, ciphertext, ad []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, kerrors.ErrAuthentication
	}
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		return nil, kerrors.ErrAuthentication
	}
	return plaintext, nil
}

// Seal encrypts a single payload under key. See Cipher.Seal.
func Seal(key *MasterKey, nonce, plaintext, ad []byte) ([]byte, error) {
	c, err := NewCipher(key)
	if err != nil {
		return nil, err
	}
	return c.Seal(nonce, plaintext, ad)
}

// Open decrypts a single payload under key. See Cipher.Open.
func Open(key *MasterKey, nonce, ciphertext, ad []byte) ([]byte, error) {
	c, err := NewCipher(key)
	if err != nil {
		return nil, err
	}
	return c.Open(nonce, ciphertext, ad)
}
