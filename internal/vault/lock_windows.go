//go:build windows

package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"golang.org/x/sys/windows"
)

// lockFileName is only used on windows, where directories cannot be locked.
const lockFileName = ".lock"

func (v *Vault) lock() (func(), error) {
	f, err := os.OpenFile(filepath.Join(v.root, lockFileName), os.O_CREATE|os.O_RDWR, FileMode)
	if err != nil {
		return nil, fmt.Errorf("opening vault lock: %w", err)
	}
	h := windows.Handle(f.Fd())
	ol := new(windows.Overlapped)

	deadline := time.Now().Add(v.lockTimeout)
	for {
		err := windows.LockFileEx(h, windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, 0, 1, 0, ol)
		if err == nil {
			return func() {
				_ = windows.UnlockFileEx(h, 0, 1, 0, ol)
				f.Close()
			}, nil
		}
		if !errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			f.Close()
			return nil, fmt.Errorf("locking vault: %w", err)
		}
		if time.Now().After(deadline) {
			f.Close()
			return nil, kerrors.ErrVaultBusy
		}
		time.Sleep(lockRetryInterval)
	}
}
