package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"github.com/PolarWolf314/secman/internal/secrets"
	"github.com/google/uuid"
)

// MaxPayloadSize is the largest secret value accepted by Add.
const MaxPayloadSize = 1 << 20

// Entry is the metadata of one stored secret. List never returns payloads.
type Entry struct {
	// Name is the entry name, equal to its file name.
	Name string

	// Nonce is the nonce the entry was sealed with.
	Nonce []byte

	// Size is the payload length in bytes.
	Size int

	// ModTime is the entry file's modification time.
	ModTime time.Time

	// Err is set when the entry could not be decoded or opened. It wraps
	// ErrMalformedEntry, ErrAuthentication or ErrInvalidEntryName in a
	// *kerrors.EntryError.
	Err error
}

// OK reports whether the entry opened under the listing key.
func (e Entry) OK() bool {
	return e.Err == nil
}

// List returns every entry in lexicographic name order. Each entry is
// decrypted under key to check that it opens; a failure is recorded on
// Entry.Err instead of failing the listing, so one bad entry does not hide
// the rest. List takes no lock.
func (v *Vault) List(key *secrets.MasterKey) ([]Entry, error) {
	c, err := secrets.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return v.list(c)
}

func (v *Vault) list(c *secrets.Cipher) ([]Entry, error) {
	names, err := v.Names()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, v.inspect(c, name))
	}
	return entries, nil
}

// Names returns the sorted entry file names without reading them. Reserved
// dot files and anything that is not a regular file are skipped.
func (v *Vault) Names() ([]string, error) {
	return v.scan(func(de fs.DirEntry) bool {
		return !strings.HasPrefix(de.Name(), ".") && de.Type().IsRegular()
	})
}

// TempFiles returns the temp files left behind by interrupted writes.
func (v *Vault) TempFiles() ([]string, error) {
	return v.scan(func(de fs.DirEntry) bool {
		return strings.HasPrefix(de.Name(), tempPrefix)
	})
}

func (v *Vault) scan(keep func(fs.DirEntry) bool) ([]string, error) {
	if err := v.requireReady(); err != nil {
		return nil, err
	}

	// os.ReadDir sorts by file name.
	dirents, err := os.ReadDir(v.root)
	if err != nil {
		return nil, fmt.Errorf("reading vault directory: %w", err)
	}

	var names []string
	for _, de := range dirents {
		if keep(de) {
			names = append(names, de.Name())
		}
	}
	return names, nil
}

func (v *Vault) inspect(c *secrets.Cipher, name string) Entry {
	e := Entry{Name: name}
	fail := func(err error) Entry {
		e.Err = &kerrors.EntryError{Name: name, Err: err}
		return e
	}

	if err := secrets.ValidateEntryName(name); err != nil {
		return fail(err)
	}
	data, info, err := v.readEntry(name)
	if err != nil {
		return fail(err)
	}
	e.ModTime = info.ModTime()

	nonce, ciphertext, err := secrets.DecodeEntry(data)
	if err != nil {
		return fail(err)
	}
	e.Nonce = append([]byte(nil), nonce...)
	e.Size = len(ciphertext) - secrets.TagSize

	plaintext, err := c.Open(nonce, ciphertext, secrets.EntryAD(name))
	if err != nil {
		return fail(err)
	}
	secrets.Wipe(plaintext)
	return e
}

// Add stores a new entry. It fails with ErrDuplicateEntry if name exists and
// with ErrAuthentication if the vault has entries and key opens none of them,
// so a mistyped passphrase cannot add entries nobody can read back.
// The entry is written to a temp file and renamed into place.
func (v *Vault) Add(key *secrets.MasterKey, name string, payload []byte) error {
	if err := secrets.ValidateEntryName(name); err != nil {
		return err
	}
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("secret value is larger than %d bytes", MaxPayloadSize)
	}
	if err := v.requireReady(); err != nil {
		return err
	}

	unlock, err := v.lock()
	if err != nil {
		return err
	}
	defer unlock()

	exists, err := v.exists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", kerrors.ErrDuplicateEntry, name)
	}

	c, err := secrets.NewCipher(key)
	if err != nil {
		return err
	}
	if err := v.verifyKey(c); err != nil {
		return err
	}

	nonce, err := secrets.NewNonce()
	if err != nil {
		return err
	}
	ciphertext, err := c.Seal(nonce, payload, secrets.EntryAD(name))
	if err != nil {
		return fmt.Errorf("encrypting %s: %w", name, err)
	}
	data, err := secrets.EncodeEntry(nonce, ciphertext)
	if err != nil {
		return err
	}
	return v.writeAtomic(name, data)
}

// Get returns the decrypted payload of name. Callers wipe it after use.
func (v *Vault) Get(key *secrets.MasterKey, name string) ([]byte, error) {
	if err := secrets.ValidateEntryName(name); err != nil {
		return nil, err
	}
	if err := v.requireReady(); err != nil {
		return nil, err
	}
	return v.open(key, name)
}

// Remove deletes name after confirming it opens under key. A key that cannot
// open the entry cannot delete it; this is the only removal policy.
func (v *Vault) Remove(key *secrets.MasterKey, name string) error {
	if err := secrets.ValidateEntryName(name); err != nil {
		return err
	}
	if err := v.requireReady(); err != nil {
		return err
	}

	unlock, err := v.lock()
	if err != nil {
		return err
	}
	defer unlock()

	plaintext, err := v.open(key, name)
	if err != nil {
		return err
	}
	secrets.Wipe(plaintext)

	if err := os.Remove(v.entryPath(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", kerrors.ErrNotFound, name)
		}
		return fmt.Errorf("removing %s: %w", name, err)
	}
	_ = syncDir(v.root)
	return nil
}

// Clean removes temp files left behind by interrupted writes and returns
// their names.
func (v *Vault) Clean() ([]string, error) {
	if err := v.requireReady(); err != nil {
		return nil, err
	}

	unlock, err := v.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	stale, err := v.TempFiles()
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, name := range stale {
		if err := os.Remove(filepath.Join(v.root, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("removing %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func (v *Vault) open(key *secrets.MasterKey, name string) ([]byte, error) {
	c, err := secrets.NewCipher(key)
	if err != nil {
		return nil, err
	}
	data, _, err := v.readEntry(name)
	if err != nil {
		return nil, err
	}
	nonce, ciphertext, err := secrets.DecodeEntry(data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	plaintext, err := c.Open(nonce, ciphertext, secrets.EntryAD(name))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return plaintext, nil
}

func (v *Vault) readEntry(name string) ([]byte, fs.FileInfo, error) {
	path := v.entryPath(name)
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", kerrors.ErrNotFound, name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil, fmt.Errorf("%w: %s is not a regular file", kerrors.ErrMalformedEntry, name)
	}
	if info.Size() > MaxPayloadSize+secrets.MinEntrySize {
		return nil, nil, fmt.Errorf("%w: %s is %d bytes", kerrors.ErrMalformedEntry, name, info.Size())
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", kerrors.ErrNotFound, name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, info, nil
}

func (v *Vault) exists(name string) (bool, error) {
	_, err := os.Lstat(v.entryPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", name, err)
	}
	return true, nil
}

// verifyKey passes when the vault is empty or key opens at least one entry.
// Entries that are malformed don't count either way.
func (v *Vault) verifyKey(c *secrets.Cipher) error {
	entries, err := v.list(c)
	if err != nil {
		return err
	}
	rejected := 0
	for _, e := range entries {
		if e.OK() {
			return nil
		}
		if errors.Is(e.Err, kerrors.ErrAuthentication) {
			rejected++
		}
	}
	if rejected > 0 {
		return fmt.Errorf("%w: passphrase does not open any existing entry", kerrors.ErrAuthentication)
	}
	return nil
}

// writeAtomic writes data to a temp file in the vault and renames it to name.
// Until the rename, name is untouched; the temp file is removed on failure.
func (v *Vault) writeAtomic(name string, data []byte) error {
	tmp := filepath.Join(v.root, tempPrefix+uuid.NewString())
	if err := writeFileSync(tmp, data); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := renameFile(tmp, v.entryPath(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	_ = syncDir(v.root)
	return nil
}
