package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"github.com/PolarWolf314/secman/internal/secrets"
	"github.com/google/uuid"
)

const (
	// SaltFileName is the per-vault salt file in the vault root.
	SaltFileName = ".salt"

	// DirMode and FileMode restrict the vault to its owner.
	DirMode  = 0700
	FileMode = 0600

	tempPrefix    = ".tmp-"
	stagingSuffix = ".init-"

	defaultLockTimeout = 5 * time.Second
	lockRetryInterval  = 50 * time.Millisecond
)

// State is the on-disk state of a vault directory.
type State int

const (
	// StateAbsent means nothing exists at the vault path.
	StateAbsent State = iota
	// StateUninitialized means the directory exists without a valid salt.
	// Init never repairs it.
	StateUninitialized
	// StateReady means the directory and its salt are in place.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a Vault.
type Options struct {
	// Path is the vault root directory.
	Path string

	// KDF overrides the key derivation cost. Zero means secrets.DefaultKDFParams.
	KDF secrets.KDFParams

	// LockTimeout bounds how long mutating operations wait for the vault lock.
	// Zero means 5 seconds.
	LockTimeout time.Duration
}

// Vault is a directory of encrypted entries unlocked by a single passphrase.
// A Vault holds no key material; keys are passed to each operation.
type Vault struct {
	root        string
	kdf         secrets.KDFParams
	lockTimeout time.Duration
}

// Filesystem hooks, replaced in tests to simulate crashes.
var (
	renameFile = os.Rename
	syncDir    = fsyncDir
)

// New returns a Vault rooted at opts.Path. It does not touch the filesystem.
func New(opts Options) (*Vault, error) {
	if opts.Path == "" {
		return nil, errors.New("vault path is empty")
	}
	root, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving vault path: %w", err)
	}

	v := &Vault{
		root:        root,
		kdf:         opts.KDF,
		lockTimeout: opts.LockTimeout,
	}
	if v.kdf == (secrets.KDFParams{}) {
		v.kdf = secrets.DefaultKDFParams()
	}
	if v.lockTimeout == 0 {
		v.lockTimeout = defaultLockTimeout
	}
	return v, nil
}

// Path returns the absolute vault root.
func (v *Vault) Path() string {
	return v.root
}

// State inspects the vault directory. A path that exists but is not a
// directory is reported as ErrCorruptVault.
func (v *Vault) State() (State, error) {
	info, err := os.Stat(v.root)
	if errors.Is(err, fs.ErrNotExist) {
		return StateAbsent, nil
	}
	if err != nil {
		return StateAbsent, fmt.Errorf("checking vault at %s: %w", v.root, err)
	}
	if !info.IsDir() {
		return StateUninitialized, fmt.Errorf("%w: %s is not a directory", kerrors.ErrCorruptVault, v.root)
	}

	if _, err := v.readSalt(); err != nil {
		if errors.Is(err, kerrors.ErrCorruptVault) {
			return StateUninitialized, nil
		}
		return StateAbsent, err
	}
	return StateReady, nil
}

// Init creates the vault on first run: the directory and a fresh random salt
// are staged next to the vault path and renamed into place, so a crash never
// leaves a directory without a salt. Init on a ready vault is a no-op and
// reports created=false.
func (v *Vault) Init() (created bool, err error) {
	state, err := v.State()
	if err != nil {
		return false, err
	}
	switch state {
	case StateReady:
		return false, nil
	case StateUninitialized:
		return false, fmt.Errorf("%w: %s exists without a valid %s", kerrors.ErrCorruptVault, v.root, SaltFileName)
	}

	parent := filepath.Dir(v.root)
	if err := os.MkdirAll(parent, DirMode); err != nil {
		return false, fmt.Errorf("%w: creating %s: %w", kerrors.ErrInit, parent, err)
	}

	staging := v.root + stagingSuffix + uuid.NewString()
	if err := os.Mkdir(staging, DirMode); err != nil {
		return false, fmt.Errorf("%w: creating vault directory: %w", kerrors.ErrInit, err)
	}
	defer os.RemoveAll(staging)

	salt, err := secrets.NewSalt()
	if err != nil {
		return false, fmt.Errorf("%w: %w", kerrors.ErrInit, err)
	}
	if err := writeFileSync(filepath.Join(staging, SaltFileName), salt); err != nil {
		return false, fmt.Errorf("%w: writing salt: %w", kerrors.ErrInit, err)
	}

	if err := renameFile(staging, v.root); err != nil {
		// Another process may have initialized the vault first.
		if state, stateErr := v.State(); stateErr == nil && state == StateReady {
			return false, nil
		}
		return false, fmt.Errorf("%w: moving vault into place: %w", kerrors.ErrInit, err)
	}
	_ = syncDir(parent)

	return true, nil
}

// Unlock derives the master key for this vault. The passphrase is wiped before
// Unlock returns. A wrong passphrase is not detected here; it surfaces as
// ErrAuthentication when an entry is opened.
func (v *Vault) Unlock(passphrase []byte) (*secrets.MasterKey, error) {
	defer secrets.Wipe(passphrase)

	if err := v.requireReady(); err != nil {
		return nil, err
	}
	salt, err := v.readSalt()
	if err != nil {
		return nil, err
	}
	return secrets.DeriveKey(passphrase, salt, v.kdf)
}

// InsecurePermissions reports whether the vault directory is accessible by
// users other than its owner.
func (v *Vault) InsecurePermissions() (fs.FileMode, bool) {
	info, err := os.Stat(v.root)
	if err != nil {
		return 0, false
	}
	perm := info.Mode().Perm()
	return perm, perm&0077 != 0
}

func (v *Vault) requireReady() error {
	state, err := v.State()
	if err != nil {
		return err
	}
	switch state {
	case StateAbsent:
		return fmt.Errorf("%w at %s", kerrors.ErrVaultNotInitialized, v.root)
	case StateUninitialized:
		return fmt.Errorf("%w: %s exists without a valid %s", kerrors.ErrCorruptVault, v.root, SaltFileName)
	}
	return nil
}

func (v *Vault) readSalt() ([]byte, error) {
	path := filepath.Join(v.root, SaltFileName)
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s is missing", kerrors.ErrCorruptVault, SaltFileName)
	}
	if err != nil {
		return nil, fmt.Errorf("reading salt: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", kerrors.ErrCorruptVault, SaltFileName)
	}

	salt, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading salt: %w", err)
	}
	if len(salt) != secrets.SaltSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, want %d", kerrors.ErrCorruptVault, SaltFileName, len(salt), secrets.SaltSize)
	}
	return salt, nil
}

func (v *Vault) entryPath(name string) string {
	return filepath.Join(v.root, name)
}

// writeFileSync creates path exclusively, writes data and fsyncs it.
func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FileMode)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fsyncDir(path string) error {
	d, err := os.Open(path)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
