//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package vault

import (
	"errors"
	"fmt"
	"os"
	"time"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"golang.org/x/sys/unix"
)

// lock takes an exclusive flock on the vault directory itself, retrying until
// the lock timeout. The returned func releases it.
func (v *Vault) lock() (func(), error) {
	d, err := os.Open(v.root)
	if err != nil {
		return nil, fmt.Errorf("opening vault for locking: %w", err)
	}
	fd := int(d.Fd())

	deadline := time.Now().Add(v.lockTimeout)
	for {
		err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return func() {
				_ = unix.Flock(fd, unix.LOCK_UN)
				d.Close()
			}, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			d.Close()
			return nil, fmt.Errorf("locking vault: %w", err)
		}
		if time.Now().After(deadline) {
			d.Close()
			return nil, kerrors.ErrVaultBusy
		}
		time.Sleep(lockRetryInterval)
	}
}
