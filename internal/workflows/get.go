package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/secman/internal/audit"
	"github.com/PolarWolf314/secman/internal/secrets"
)

// GetOptions configures the get workflow.
type GetOptions struct {
	Target

	// Name is the entry name.
	Name string

	// Passphrase unlocks the vault. It is wiped before Get returns.
	Passphrase []byte
}

// GetResult contains the outcome of a get operation.
type GetResult struct {
	Name string

	// Value is the decrypted secret. Callers wipe it after use.
	Value []byte
}

// Get decrypts a single entry.
//
// Returns ErrNotFound if the entry does not exist and ErrAuthentication if
// the passphrase is wrong or the entry was tampered with.
func Get(ctx context.Context, opts GetOptions) (*GetResult, error) {
	v, err := opts.open()
	if err != nil {
		secrets.Wipe(opts.Passphrase)
		return nil, err
	}

	key, err := unlock(ctx, v, opts.Passphrase)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	value, err := v.Get(key, opts.Name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.Name, err)
	}

	entry := audit.NewEntry(audit.OpGet, v.Path())
	entry.Name = opts.Name
	opts.record(entry)

	return &GetResult{Name: opts.Name, Value: value}, nil
}
