package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/secman/internal/audit"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	Target
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// VaultPath is the absolute vault directory.
	VaultPath string

	// Created is false when the vault already existed and nothing changed.
	Created bool
}

// Init creates the vault directory and its salt.
//
// Running Init on an initialized vault is a no-op. A directory without a
// valid salt is never repaired and fails with ErrCorruptVault; an unusable
// path fails with ErrInit.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err := opts.open()
	if err != nil {
		return nil, err
	}

	created, err := v.Init()
	if err != nil {
		return nil, fmt.Errorf("initializing vault: %w", err)
	}

	if created {
		opts.record(audit.NewEntry(audit.OpInit, v.Path()))
	}

	return &InitResult{
		VaultPath: v.Path(),
		Created:   created,
	}, nil
}
