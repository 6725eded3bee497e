//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package secrets

import "errors"

var errMlockUnsupported = errors.New("mlock not supported on this platform")

func lockMemory([]byte) error   { return errMlockUnsupported }
func unlockMemory([]byte) error { return nil }
