//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package utils

// DisableCoreDumps is a no-op on platforms without RLIMIT_CORE.
func DisableCoreDumps() error {
	return nil
}
