package secrets

import (
	"crypto/rand"
	"fmt"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of the per-vault salt written at init.
	SaltSize = 32

	// MinSaltSize is the shortest salt DeriveKey accepts.
	MinSaltSize = 16
)

// KDFParams are the Argon2id cost parameters.
type KDFParams struct {
	// Memory in KiB.
	Memory uint32
	// Iterations is the number of passes over memory.
	Iterations uint32
	// Parallelism is the number of lanes.
	Parallelism uint8
}

// DefaultKDFParams returns the production cost parameters: 64 MiB, 3 passes,
// 4 lanes. Roughly 100-300ms on a current laptop.
func DefaultKDFParams() KDFParams {
	return KDFParams{Memory: 64 * 1024, Iterations: 3, Parallelism: 4}
}

// Validate reports parameters argon2 cannot satisfy.
func (p KDFParams) Validate() error {
	switch {
	case p.Parallelism == 0:
		return fmt.Errorf("%w: parallelism must be at least 1", kerrors.ErrKeyDerivation)
	case p.Iterations == 0:
		return fmt.Errorf("%w: iterations must be at least 1", kerrors.ErrKeyDerivation)
	case p.Memory < 8*uint32(p.Parallelism):
		return fmt.Errorf("%w: memory must be at least %d KiB for %d lanes",
			kerrors.ErrKeyDerivation, 8*uint32(p.Parallelism), p.Parallelism)
	}
	return nil
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives the master key from a passphrase and the vault salt using
// Argon2id. It does not check the passphrase; a wrong passphrase simply yields
// a key that fails to open existing entries.
func DeriveKey(passphrase, salt []byte, params KDFParams) (*MasterKey, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", kerrors.ErrKeyDerivation)
	}
	if len(salt) < MinSaltSize {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes, got %d",
			kerrors.ErrKeyDerivation, MinSaltSize, len(salt))
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	raw := argon2.IDKey(passphrase, salt, params.Iterations, params.Memory, params.Parallelism, KeySize)
	defer Wipe(raw)

	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: derived %d bytes, want %d", kerrors.ErrKeyDerivation, len(raw), KeySize)
	}
	return newMasterKey(raw), nil
}
