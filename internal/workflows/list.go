package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/secman/internal/secrets"
	"github.com/PolarWolf314/secman/internal/vault"
)

// ListOptions configures the list workflow.
type ListOptions struct {
	Target

	// Passphrase unlocks the vault. It is wiped before List returns.
	Passphrase []byte

	// Reveal includes decrypted values in the result.
	Reveal bool
}

// ListedEntry is one vault entry with its value when revealed.
type ListedEntry struct {
	vault.Entry

	// Value is the decrypted payload. Nil unless ListOptions.Reveal is set
	// and the entry opened.
	Value []byte
}

// ListResult contains the outcome of a list operation.
type ListResult struct {
	// VaultPath is the absolute vault directory.
	VaultPath string

	// Entries are in lexicographic name order.
	Entries []ListedEntry

	// Failed counts entries that could not be opened.
	Failed int
}

// Wipe zeroes every revealed value.
func (r *ListResult) Wipe() {
	for i := range r.Entries {
		secrets.Wipe(r.Entries[i].Value)
		r.Entries[i].Value = nil
	}
}

// List unlocks the vault and lists its entries.
//
// Per-entry failures (ErrAuthentication, ErrMalformedEntry) are reported on
// each entry and never fail the listing. A wrong passphrase therefore
// yields a listing where every entry failed.
func List(ctx context.Context, opts ListOptions) (*ListResult, error) {
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

	entries, err := v.List(key)
	if err != nil {
		return nil, fmt.Errorf("listing vault: %w", err)
	}

	result := &ListResult{
		VaultPath: v.Path(),
		Entries:   make([]ListedEntry, 0, len(entries)),
	}
	for _, e := range entries {
		listed := ListedEntry{Entry: e}
		if !e.OK() {
			result.Failed++
		} else if opts.Reveal {
			value, err := v.Get(key, e.Name)
			if err != nil {
				// The entry changed between List and Get.
				listed.Err = err
				result.Failed++
			} else {
				listed.Value = value
			}
		}
		result.Entries = append(result.Entries, listed)
	}

	return result, nil
}
