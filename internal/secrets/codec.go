package secrets

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
)

// MaxEntryNameLength is the longest entry name accepted, in bytes.
const MaxEntryNameLength = 255

// MinEntrySize is the smallest well-formed entry file: a nonce and an empty
// payload's tag.
const MinEntrySize = NonceSize + TagSize

const entryADPrefix = "secman/entry/v1:"

// windowsReserved are device names that cannot be used as file names on Windows.
var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// EntryAD returns the associated data binding an entry's ciphertext to its name.
func EntryAD(name string) []byte {
	return []byte(entryADPrefix + name)
}

// EncodeEntry frames an entry for disk as [nonce][ciphertext||tag].
func EncodeEntry(nonce, ciphertext []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", kerrors.ErrMalformedEntry, NonceSize, len(nonce))
	}
	if len(ciphertext) < TagSize {
		return nil, fmt.Errorf("%w: ciphertext shorter than tag", kerrors.ErrMalformedEntry)
	}
	out := make([]byte, 0, len(nonce)+len(ciphertext))
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// DecodeEntry splits an entry file into its nonce and ciphertext||tag.
// The returned slices alias data.
func DecodeEntry(data []byte) (nonce, ciphertext []byte, err error) {
	if len(data) < MinEntrySize {
		return nil, nil, fmt.Errorf("%w: %d bytes, need at least %d", kerrors.ErrMalformedEntry, len(data), MinEntrySize)
	}
	return data[:NonceSize], data[NonceSize:], nil
}

// ValidateEntryName checks that name is usable as a single, portable file name.
// Names starting with a dot are reserved for vault metadata and temp files.
func ValidateEntryName(name string) error {
	invalid := func(reason string) error {
		return fmt.Errorf("%w: %s", kerrors.ErrInvalidEntryName, reason)
	}

	switch {
	case name == "":
		return invalid("name is empty")
	case len(name) > MaxEntryNameLength:
		return invalid(fmt.Sprintf("name is longer than %d bytes", MaxEntryNameLength))
	case !utf8.ValidString(name):
		return invalid("name is not valid UTF-8")
	case strings.HasPrefix(name, "."):
		return invalid("name must not start with '.'")
	case strings.ContainsAny(name, `/\`):
		return invalid("name must not contain path separators")
	case strings.HasSuffix(name, " ") || strings.HasSuffix(name, "."):
		return invalid("name must not end with a space or '.'")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return invalid("name must not contain control characters")
		}
		if strings.ContainsRune(`:*?"<>|`, r) {
			return invalid(fmt.Sprintf("name must not contain %q", r))
		}
	}

	base := name
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if windowsReserved[strings.ToUpper(base)] {
		return invalid(fmt.Sprintf("%q is a reserved name", name))
	}

	return nil
}
