package workflows

import (
	"context"
	"time"

	"github.com/PolarWolf314/secman/internal/audit"
	"github.com/PolarWolf314/secman/internal/configs"
	"github.com/PolarWolf314/secman/internal/secrets"
	"github.com/PolarWolf314/secman/internal/vault"
)

// Target identifies the vault a workflow runs against. Every workflow
// options struct embeds it.
type Target struct {
	// Settings is the resolved configuration: vault path and audit settings.
	Settings *configs.Settings

	// KDF overrides the key derivation cost. Zero means the production default.
	KDF secrets.KDFParams

	// LockTimeout overrides how long writers wait for the vault lock.
	LockTimeout time.Duration
}

func (t Target) open() (*vault.Vault, error) {
	return vault.New(vault.Options{
		Path:        t.Settings.VaultPath,
		KDF:         t.KDF,
		LockTimeout: t.LockTimeout,
	})
}

// record appends entry to the audit log when auditing is enabled.
// Failures are ignored.
func (t Target) record(entry audit.Entry) {
	if !t.Settings.Audit {
		return
	}
	audit.Log(t.Settings.AuditPath, entry)
}

// unlock derives the master key, wiping passphrase. The caller wipes the key.
func unlock(ctx context.Context, v *vault.Vault, passphrase []byte) (*secrets.MasterKey, error) {
	if err := ctx.Err(); err != nil {
		secrets.Wipe(passphrase)
		return nil, err
	}
	return v.Unlock(passphrase)
}
