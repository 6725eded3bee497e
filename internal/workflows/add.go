package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/secman/internal/audit"
	"github.com/PolarWolf314/secman/internal/secrets"
)

// AddOptions configures the add workflow.
type AddOptions struct {
	Target

	// Name is the entry name.
	Name string

	// Passphrase unlocks the vault. It is wiped before Add returns.
	Passphrase []byte

	// Value is the secret. It is wiped before Add returns.
	Value []byte
}

// AddResult contains the outcome of an add operation.
type AddResult struct {
	// Name is the entry that was stored.
	Name string

	// VaultPath is the absolute vault directory.
	VaultPath string
}

// Add stores a new entry.
//
// Returns ErrInvalidEntryName for names that cannot be file names,
// ErrDuplicateEntry if the name exists (the stored value is untouched), and
// ErrAuthentication if the passphrase opens none of the existing entries.
func Add(ctx context.Context, opts AddOptions) (*AddResult, error) {
	defer secrets.Wipe(opts.Value)

	if err := secrets.ValidateEntryName(opts.Name); err != nil {
		secrets.Wipe(opts.Passphrase)
		return nil, err
	}

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

	if err := v.Add(key, opts.Name, opts.Value); err != nil {
		return nil, fmt.Errorf("adding %s: %w", opts.Name, err)
	}

	entry := audit.NewEntry(audit.OpAdd, v.Path())
	entry.Name = opts.Name
	opts.record(entry)

	return &AddResult{
		Name:      opts.Name,
		VaultPath: v.Path(),
	}, nil
}
