package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/secman/internal/audit"
)

// CleanOptions configures the clean workflow.
type CleanOptions struct {
	Target

	// DryRun previews what would be removed without making changes.
	DryRun bool
}

// CleanResult contains the outcome of a clean operation.
type CleanResult struct {
	// Stale lists the temp files found in the vault.
	Stale []string

	// RemovedCount is the number of files removed (0 if dry-run).
	RemovedCount int

	// DryRun indicates whether this was a dry-run.
	DryRun bool
}

// Clean removes temp files left in the vault by interrupted writes.
//
// A temp file is never a valid entry: entries only appear by rename, so
// removing them loses nothing. Clean needs no passphrase.
func Clean(ctx context.Context, opts CleanOptions) (*CleanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err := opts.open()
	if err != nil {
		return nil, err
	}

	result := &CleanResult{DryRun: opts.DryRun}

	if opts.DryRun {
		result.Stale, err = v.TempFiles()
		if err != nil {
			return nil, fmt.Errorf("finding temp files: %w", err)
		}
		return result, nil
	}

	removed, err := v.Clean()
	result.Stale = removed
	result.RemovedCount = len(removed)
	if err != nil {
		return result, fmt.Errorf("removing temp files: %w", err)
	}

	if len(removed) > 0 {
		entry := audit.NewEntry(audit.OpClean, v.Path())
		entry.RemovedCount = len(removed)
		opts.record(entry)
	}

	return result, nil
}
