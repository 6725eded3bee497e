package vault

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"github.com/PolarWolf314/secman/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKDF = secrets.KDFParams{Memory: 64, Iterations: 1, Parallelism: 1}

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := New(Options{Path: filepath.Join(t.TempDir(), ".secman"), KDF: testKDF})
	require.NoError(t, err)
	return v
}

func newReadyVault(t *testing.T) *Vault {
	t.Helper()
	v := newTestVault(t)
	created, err := v.Init()
	require.NoError(t, err)
	require.True(t, created)
	return v
}

func unlock(t *testing.T, v *Vault, passphrase string) *secrets.MasterKey {
	t.Helper()
	key, err := v.Unlock([]byte(passphrase))
	require.NoError(t, err)
	t.Cleanup(key.Wipe)
	return key
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	v, err := New(Options{Path: "relative/vault"})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(v.Path()))
	assert.Equal(t, secrets.DefaultKDFParams(), v.kdf)
	assert.Equal(t, defaultLockTimeout, v.lockTimeout)
}

func TestInit_CreatesVaultWithSalt(t *testing.T) {
	v := newTestVault(t)

	state, err := v.State()
	require.NoError(t, err)
	assert.Equal(t, StateAbsent, state)

	created, err := v.Init()
	require.NoError(t, err)
	assert.True(t, created)

	info, err := os.Stat(v.Path())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	salt, err := os.ReadFile(filepath.Join(v.Path(), SaltFileName))
	require.NoError(t, err)
	assert.Len(t, salt, secrets.SaltSize)

	state, err = v.State()
	require.NoError(t, err)
	assert.Equal(t, StateReady, state)

	// No staging directories are left next to the vault.
	siblings, err := os.ReadDir(filepath.Dir(v.Path()))
	require.NoError(t, err)
	assert.Len(t, siblings, 1)
}

func TestInit_IsNoOpAndNeverRegeneratesSalt(t *testing.T) {
	v := newReadyVault(t)
	saltPath := filepath.Join(v.Path(), SaltFileName)
	before, err := os.ReadFile(saltPath)
	require.NoError(t, err)

	created, err := v.Init()
	require.NoError(t, err)
	assert.False(t, created)

	after, err := os.ReadFile(saltPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestInit_DistinctVaultsGetDistinctSalts(t *testing.T) {
	a := newReadyVault(t)
	b := newReadyVault(t)

	saltA, err := os.ReadFile(filepath.Join(a.Path(), SaltFileName))
	require.NoError(t, err)
	saltB, err := os.ReadFile(filepath.Join(b.Path(), SaltFileName))
	require.NoError(t, err)
	assert.NotEqual(t, saltA, saltB)

	keyA := unlock(t, a, "same passphrase")
	keyB := unlock(t, b, "same passphrase")
	assert.NotEqual(t, keyA.Bytes(), keyB.Bytes())
}

func TestInit_CorruptVaultIsNotRepaired(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, root string)
	}{
		{"directory without salt", func(t *testing.T, root string) {
			require.NoError(t, os.Mkdir(root, DirMode))
		}},
		{"short salt", func(t *testing.T, root string) {
			require.NoError(t, os.Mkdir(root, DirMode))
			require.NoError(t, os.WriteFile(filepath.Join(root, SaltFileName), []byte("short"), FileMode))
		}},
		{"salt is a directory", func(t *testing.T, root string) {
			require.NoError(t, os.Mkdir(root, DirMode))
			require.NoError(t, os.Mkdir(filepath.Join(root, SaltFileName), DirMode))
		}},
		{"salt is a symlink", func(t *testing.T, root string) {
			if runtime.GOOS == "windows" {
				t.Skip("symlinks need privileges on windows")
			}
			require.NoError(t, os.Mkdir(root, DirMode))
			target := filepath.Join(filepath.Dir(root), "elsewhere")
			require.NoError(t, os.WriteFile(target, make([]byte, secrets.SaltSize), FileMode))
			require.NoError(t, os.Symlink(target, filepath.Join(root, SaltFileName)))
		}},
		{"path is a file", func(t *testing.T, root string) {
			require.NoError(t, os.WriteFile(root, []byte("x"), FileMode))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVault(t)
			tt.prepare(t, v.Path())

			created, err := v.Init()
			assert.False(t, created)
			assert.ErrorIs(t, err, kerrors.ErrCorruptVault)

			_, err = v.Unlock([]byte("pass"))
			assert.ErrorIs(t, err, kerrors.ErrCorruptVault)
		})
	}
}

func TestInit_FailsWhenParentNotWritable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	parent := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.Mkdir(parent, 0500))
	t.Cleanup(func() { os.Chmod(parent, 0700) })

	v, err := New(Options{Path: filepath.Join(parent, ".secman"), KDF: testKDF})
	require.NoError(t, err)

	_, err = v.Init()
	assert.ErrorIs(t, err, kerrors.ErrInit)
}

func TestInit_RenameFailureLeavesVaultAbsent(t *testing.T) {
	v := newTestVault(t)

	original := renameFile
	renameFile = func(string, string) error { return errors.New("simulated crash") }
	t.Cleanup(func() { renameFile = original })

	_, err := v.Init()
	assert.ErrorIs(t, err, kerrors.ErrInit)

	state, err := v.State()
	require.NoError(t, err)
	assert.Equal(t, StateAbsent, state)
}

func TestUnlock_RequiresInitializedVault(t *testing.T) {
	v := newTestVault(t)
	_, err := v.Unlock([]byte("pass"))
	assert.ErrorIs(t, err, kerrors.ErrVaultNotInitialized)
}

func TestUnlock_WipesPassphrase(t *testing.T) {
	v := newReadyVault(t)
	passphrase := []byte("correct horse")

	key, err := v.Unlock(passphrase)
	require.NoError(t, err)
	defer key.Wipe()

	assert.Equal(t, make([]byte, len(passphrase)), passphrase)
}

func TestUnlock_Deterministic(t *testing.T) {
	v := newReadyVault(t)
	k1 := unlock(t, v, "pass")
	k2 := unlock(t, v, "pass")
	k3 := unlock(t, v, "other")
	assert.Equal(t, k1.Bytes(), k2.Bytes())
	assert.NotEqual(t, k1.Bytes(), k3.Bytes())
}

func TestUnlock_EmptyPassphrase(t *testing.T) {
	v := newReadyVault(t)
	_, err := v.Unlock(nil)
	assert.ErrorIs(t, err, kerrors.ErrKeyDerivation)
}

func TestInsecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	v := newReadyVault(t)
	_, insecure := v.InsecurePermissions()
	assert.False(t, insecure)

	require.NoError(t, os.Chmod(v.Path(), 0755))
	perm, insecure := v.InsecurePermissions()
	assert.True(t, insecure)
	assert.Equal(t, os.FileMode(0755), perm)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "absent", StateAbsent.String())
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "ready", StateReady.String())
}
