package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/secman/internal/audit"
	"github.com/PolarWolf314/secman/internal/secrets"
)

// RemoveOptions configures the remove workflow.
type RemoveOptions struct {
	Target

	// Name is the entry to delete.
	Name string

	// Passphrase unlocks the vault. It is wiped before Remove returns.
	Passphrase []byte
}

// RemoveResult contains the outcome of a remove operation.
type RemoveResult struct {
	Name string

	// VaultPath is the absolute vault directory.
	VaultPath string
}

// Remove deletes an entry after confirming the passphrase opens it.
//
// Returns ErrNotFound if the entry does not exist. A wrong passphrase fails
// with ErrAuthentication and leaves the entry in place.
func Remove(ctx context.Context, opts RemoveOptions) (*RemoveResult, error) {
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

	if err := v.Remove(key, opts.Name); err != nil {
		return nil, fmt.Errorf("removing %s: %w", opts.Name, err)
	}

	entry := audit.NewEntry(audit.OpRemove, v.Path())
	entry.Name = opts.Name
	opts.record(entry)

	return &RemoveResult{
		Name:      opts.Name,
		VaultPath: v.Path(),
	}, nil
}
