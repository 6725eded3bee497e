//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package utils

import "golang.org/x/sys/unix"

// DisableCoreDumps sets the core file size limit to zero so a crash cannot
// write key material to disk.
func DisableCoreDumps() error {
	return unix.Setrlimit(unix.RLIMIT_CORE, &unix.Rlimit{Cur: 0, Max: 0})
}
