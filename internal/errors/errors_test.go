package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"authentication", ErrAuthentication, ExitAuth},
		{"wrapped authentication", fmt.Errorf("opening github: %w", ErrAuthentication), ExitAuth},
		{"not found", ErrNotFound, ExitNotFound},
		{"vault not initialized", ErrVaultNotInitialized, ExitNotFound},
		{"duplicate", ErrDuplicateEntry, ExitDuplicate},
		{"init", ErrInit, ExitIO},
		{"key derivation", ErrKeyDerivation, ExitIO},
		{"busy", ErrVaultBusy, ExitIO},
		{"corrupt", ErrCorruptVault, ExitCorrupt},
		{"malformed", ErrMalformedEntry, ExitMalformed},
		{"invalid name", ErrInvalidEntryName, ExitMalformed},
		{"path error", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}, ExitIO},
		{"unknown", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	codes := map[int]string{}
	for _, c := range []struct {
		name string
		code int
	}{
		{"auth", ExitAuth},
		{"not found", ExitNotFound},
		{"duplicate", ExitDuplicate},
		{"io", ExitIO},
		{"corrupt", ExitCorrupt},
		{"malformed", ExitMalformed},
	} {
		if other, ok := codes[c.code]; ok {
			t.Errorf("exit code %d shared by %s and %s", c.code, other, c.name)
		}
		codes[c.code] = c.name
	}
}

func TestEntryError(t *testing.T) {
	err := &EntryError{Name: "github", Err: ErrAuthentication}

	if !errors.Is(err, ErrAuthentication) {
		t.Error("Expected EntryError to unwrap to ErrAuthentication")
	}
	if got := err.Error(); got != `entry "github": `+ErrAuthentication.Error() {
		t.Errorf("Unexpected message: %s", got)
	}
}
