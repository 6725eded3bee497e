package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadStdin reads a secret value from stdin. A single trailing newline, as
// added by echo or a here-string, is dropped.
// Returns an error if stdin is empty, is a terminal (no piped data), or cannot be read.
func ReadStdin() ([]byte, error) {
	if IsTerminal() {
		return nil, fmt.Errorf("no data provided on stdin (hint: pipe the secret value to this command)")
	}

	return ReadValue(os.Stdin, maxStdinSize)
}

// maxStdinSize bounds ReadStdin; the vault rejects larger values anyway.
const maxStdinSize = 1<<20 + 2

// ReadValue reads at most limit bytes from r and trims one trailing newline.
// The value is read into a single buffer of limit+1 bytes, which is wiped
// when the read fails, so no partial copies are left behind.
func ReadValue(r io.Reader, limit int64) ([]byte, error) {
	buf := make([]byte, limit+1)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		wipe(buf)
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	if int64(n) > limit {
		wipe(buf)
		return nil, fmt.Errorf("stdin is larger than %d bytes", limit)
	}

	data := TrimNewline(buf[:n])
	if len(data) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}

	return data, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// TrimNewline drops one trailing "\n" or "\r\n".
func TrimNewline(data []byte) []byte {
	if bytes.HasSuffix(data, []byte("\r\n")) {
		return data[:len(data)-2]
	}
	return bytes.TrimSuffix(data, []byte("\n"))
}
