package workflows

import (
	"context"
	"fmt"
	"io/fs"
	"slices"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"github.com/PolarWolf314/secman/internal/vault"
)

// StatusOptions configures the status workflow.
type StatusOptions struct {
	Target
}

// StatusResult describes a vault without unlocking it.
type StatusResult struct {
	// VaultPath is the absolute vault directory.
	VaultPath string

	// State is the on-disk state of the vault.
	State vault.State

	// Entries is the number of entry files. Zero unless State is StateReady.
	Entries int

	// Names lists the entry files in name order.
	Names []string

	// InsecurePermissions is set when the vault directory is accessible to
	// other users; Permissions holds its mode bits.
	InsecurePermissions bool
	Permissions         fs.FileMode
}

// Ready returns nil for a usable vault, or the error an operation on it
// would fail with.
func (r *StatusResult) Ready() error {
	switch r.State {
	case vault.StateAbsent:
		return fmt.Errorf("%w at %s", kerrors.ErrVaultNotInitialized, r.VaultPath)
	case vault.StateUninitialized:
		return fmt.Errorf("%w: %s exists without a valid %s", kerrors.ErrCorruptVault, r.VaultPath, vault.SaltFileName)
	}
	return nil
}

// Has reports whether the vault holds an entry file called name.
func (r *StatusResult) Has(name string) bool {
	_, found := slices.BinarySearch(r.Names, name)
	return found
}

// Empty reports whether a ready vault holds no entries.
func (r *StatusResult) Empty() bool {
	return r.State == vault.StateReady && r.Entries == 0
}

// Status inspects the vault without prompting for a passphrase. Commands use
// it to fail before the prompt when the vault is not usable.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	v, err := opts.open()
	if err != nil {
		return nil, err
	}

	state, err := v.State()
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		VaultPath: v.Path(),
		State:     state,
	}
	if state == vault.StateAbsent {
		return result, nil
	}

	result.Permissions, result.InsecurePermissions = v.InsecurePermissions()

	if state == vault.StateReady {
		names, err := v.Names()
		if err != nil {
			return nil, err
		}
		result.Names = names
		result.Entries = len(names)
	}

	return result, nil
}
