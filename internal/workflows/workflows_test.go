package workflows

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/secman/internal/audit"
	"github.com/PolarWolf314/secman/internal/configs"
	kerrors "github.com/PolarWolf314/secman/internal/errors"
	"github.com/PolarWolf314/secman/internal/secrets"
	"github.com/PolarWolf314/secman/internal/vault"
)

var testKDF = secrets.KDFParams{Memory: 64, Iterations: 1, Parallelism: 1}

func newTarget(t *testing.T) Target {
	t.Helper()
	dir := t.TempDir()
	return Target{
		Settings: &configs.Settings{
			VaultPath: filepath.Join(dir, ".secman"),
			Audit:     true,
			AuditPath: filepath.Join(dir, "audit.jsonl"),
		},
		KDF: testKDF,
	}
}

func newInitializedTarget(t *testing.T) Target {
	t.Helper()
	target := newTarget(t)
	if _, err := Init(context.Background(), InitOptions{Target: target}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return target
}

func pass(s string) []byte {
	return []byte(s)
}

func add(t *testing.T, target Target, name, value string) {
	t.Helper()
	_, err := Add(context.Background(), AddOptions{
		Target:     target,
		Name:       name,
		Passphrase: pass("passphrase"),
		Value:      []byte(value),
	})
	if err != nil {
		t.Fatalf("Add(%s) failed: %v", name, err)
	}
}

func TestInit(t *testing.T) {
	target := newTarget(t)
	ctx := context.Background()

	result, err := Init(ctx, InitOptions{Target: target})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !result.Created {
		t.Errorf("Expected first Init to create the vault")
	}
	if result.VaultPath != target.Settings.VaultPath {
		t.Errorf("Expected vault path %s, got %s", target.Settings.VaultPath, result.VaultPath)
	}

	result, err = Init(ctx, InitOptions{Target: target})
	if err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if result.Created {
		t.Errorf("Expected second Init to be a no-op")
	}

	entries, err := audit.ReadEntries(target.Settings.AuditPath)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Operation != audit.OpInit {
		t.Errorf("Expected a single init audit entry, got %+v", entries)
	}
}

func TestInit_CorruptVault(t *testing.T) {
	target := newTarget(t)
	if err := os.Mkdir(target.Settings.VaultPath, 0700); err != nil {
		t.Fatal(err)
	}

	_, err := Init(context.Background(), InitOptions{Target: target})
	if !errors.Is(err, kerrors.ErrCorruptVault) {
		t.Errorf("Expected ErrCorruptVault, got %v", err)
	}
}

func TestStatus(t *testing.T) {
	target := newTarget(t)
	ctx := context.Background()

	status, err := Status(ctx, StatusOptions{Target: target})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.State != vault.StateAbsent {
		t.Errorf("Expected absent vault, got %s", status.State)
	}
	if !errors.Is(status.Ready(), kerrors.ErrVaultNotInitialized) {
		t.Errorf("Expected ErrVaultNotInitialized, got %v", status.Ready())
	}

	if _, err := Init(ctx, InitOptions{Target: target}); err != nil {
		t.Fatal(err)
	}
	status, err = Status(ctx, StatusOptions{Target: target})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Ready() != nil || !status.Empty() {
		t.Errorf("Expected an empty ready vault, got %+v", status)
	}
	if status.InsecurePermissions {
		t.Errorf("Expected owner-only permissions, got %o", status.Permissions)
	}

	add(t, target, "github", "s3cr3t")
	status, err = Status(ctx, StatusOptions{Target: target})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Empty() || status.Entries != 1 {
		t.Errorf("Expected 1 entry, got %d", status.Entries)
	}
}

func TestStatus_Has(t *testing.T) {
	target := newInitializedTarget(t)
	add(t, target, "github", "v1")
	add(t, target, "aws", "v2")

	status, err := Status(context.Background(), StatusOptions{Target: target})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	for name, want := range map[string]bool{"github": true, "aws": true, "gitlab": false, ".salt": false} {
		if got := status.Has(name); got != want {
			t.Errorf("Has(%q) = %t, want %t", name, got, want)
		}
	}
}

func TestStatus_Uninitialized(t *testing.T) {
	target := newTarget(t)
	if err := os.Mkdir(target.Settings.VaultPath, 0700); err != nil {
		t.Fatal(err)
	}

	status, err := Status(context.Background(), StatusOptions{Target: target})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !errors.Is(status.Ready(), kerrors.ErrCorruptVault) {
		t.Errorf("Expected ErrCorruptVault, got %v", status.Ready())
	}
}

func TestEndToEnd(t *testing.T) {
	target := newInitializedTarget(t)
	ctx := context.Background()

	add(t, target, "github", "s3cr3t")

	listed, err := List(ctx, ListOptions{Target: target, Passphrase: pass("passphrase")})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed.Entries) != 1 || listed.Entries[0].Name != "github" || listed.Failed != 0 {
		t.Fatalf("Unexpected listing: %+v", listed)
	}
	if listed.Entries[0].Value != nil {
		t.Errorf("Expected no value without Reveal")
	}

	got, err := Get(ctx, GetOptions{Target: target, Name: "github", Passphrase: pass("passphrase")})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Value) != "s3cr3t" {
		t.Errorf("Expected s3cr3t, got %q", got.Value)
	}

	if _, err := Remove(ctx, RemoveOptions{Target: target, Name: "github", Passphrase: pass("passphrase")}); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	listed, err = List(ctx, ListOptions{Target: target, Passphrase: pass("passphrase")})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed.Entries) != 0 {
		t.Errorf("Expected empty vault, got %+v", listed.Entries)
	}

	_, err = Remove(ctx, RemoveOptions{Target: target, Name: "github", Passphrase: pass("passphrase")})
	if !errors.Is(err, kerrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	entries, err := audit.ReadEntries(target.Settings.AuditPath)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	var ops []string
	for _, e := range entries {
		ops = append(ops, e.Operation)
	}
	want := []string{audit.OpInit, audit.OpAdd, audit.OpGet, audit.OpRemove}
	if len(ops) != len(want) {
		t.Fatalf("Expected audit ops %v, got %v", want, ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("Expected audit ops %v, got %v", want, ops)
			break
		}
	}
}

func TestAdd_DuplicatePreservesOriginal(t *testing.T) {
	target := newInitializedTarget(t)
	ctx := context.Background()

	add(t, target, "x", "a")

	_, err := Add(ctx, AddOptions{Target: target, Name: "x", Passphrase: pass("passphrase"), Value: []byte("b")})
	if !errors.Is(err, kerrors.ErrDuplicateEntry) {
		t.Fatalf("Expected ErrDuplicateEntry, got %v", err)
	}

	got, err := Get(ctx, GetOptions{Target: target, Name: "x", Passphrase: pass("passphrase")})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Value) != "a" {
		t.Errorf("Expected original value a, got %q", got.Value)
	}
}

func TestAdd_WipesInputs(t *testing.T) {
	target := newInitializedTarget(t)
	passphrase := pass("passphrase")
	value := []byte("s3cr3t")

	_, err := Add(context.Background(), AddOptions{Target: target, Name: "github", Passphrase: passphrase, Value: value})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if !bytes.Equal(passphrase, make([]byte, len(passphrase))) {
		t.Errorf("Expected passphrase to be wiped, got %q", passphrase)
	}
	if !bytes.Equal(value, make([]byte, len(value))) {
		t.Errorf("Expected value to be wiped, got %q", value)
	}
}

func TestAdd_InvalidName(t *testing.T) {
	target := newInitializedTarget(t)

	_, err := Add(context.Background(), AddOptions{Target: target, Name: "../x", Passphrase: pass("passphrase"), Value: []byte("v")})
	if !errors.Is(err, kerrors.ErrInvalidEntryName) {
		t.Errorf("Expected ErrInvalidEntryName, got %v", err)
	}
}

func TestList_WrongPassphrase(t *testing.T) {
	target := newInitializedTarget(t)
	add(t, target, "a", "1")
	add(t, target, "b", "2")

	listed, err := List(context.Background(), ListOptions{Target: target, Passphrase: pass("wrong"), Reveal: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if listed.Failed != 2 {
		t.Errorf("Expected 2 failed entries, got %d", listed.Failed)
	}
	for _, e := range listed.Entries {
		if !errors.Is(e.Err, kerrors.ErrAuthentication) {
			t.Errorf("Expected ErrAuthentication for %s, got %v", e.Name, e.Err)
		}
		if e.Value != nil {
			t.Errorf("Expected no value for %s", e.Name)
		}
	}
}

func TestList_Reveal(t *testing.T) {
	target := newInitializedTarget(t)
	add(t, target, "a", "1")
	add(t, target, "b", "2")

	listed, err := List(context.Background(), ListOptions{Target: target, Passphrase: pass("passphrase"), Reveal: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(listed.Entries))
	}
	if string(listed.Entries[0].Value) != "1" || string(listed.Entries[1].Value) != "2" {
		t.Errorf("Unexpected values: %q %q", listed.Entries[0].Value, listed.Entries[1].Value)
	}

	value := listed.Entries[0].Value
	listed.Wipe()
	if value[0] != 0 || listed.Entries[0].Value != nil {
		t.Errorf("Expected Wipe to zero revealed values")
	}
}

func TestRemove_WrongPassphraseKeepsEntry(t *testing.T) {
	target := newInitializedTarget(t)
	add(t, target, "github", "s3cr3t")

	_, err := Remove(context.Background(), RemoveOptions{Target: target, Name: "github", Passphrase: pass("wrong")})
	if !errors.Is(err, kerrors.ErrAuthentication) {
		t.Fatalf("Expected ErrAuthentication, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(target.Settings.VaultPath, "github")); err != nil {
		t.Errorf("Expected entry to survive: %v", err)
	}
}

func TestOperations_UninitializedVault(t *testing.T) {
	target := newTarget(t)
	ctx := context.Background()

	if _, err := List(ctx, ListOptions{Target: target, Passphrase: pass("p")}); !errors.Is(err, kerrors.ErrVaultNotInitialized) {
		t.Errorf("List: expected ErrVaultNotInitialized, got %v", err)
	}
	if _, err := Add(ctx, AddOptions{Target: target, Name: "x", Passphrase: pass("p"), Value: []byte("v")}); !errors.Is(err, kerrors.ErrVaultNotInitialized) {
		t.Errorf("Add: expected ErrVaultNotInitialized, got %v", err)
	}
	if _, err := Get(ctx, GetOptions{Target: target, Name: "x", Passphrase: pass("p")}); !errors.Is(err, kerrors.ErrVaultNotInitialized) {
		t.Errorf("Get: expected ErrVaultNotInitialized, got %v", err)
	}
	if _, err := Remove(ctx, RemoveOptions{Target: target, Name: "x", Passphrase: pass("p")}); !errors.Is(err, kerrors.ErrVaultNotInitialized) {
		t.Errorf("Remove: expected ErrVaultNotInitialized, got %v", err)
	}
	if _, err := Clean(ctx, CleanOptions{Target: target}); !errors.Is(err, kerrors.ErrVaultNotInitialized) {
		t.Errorf("Clean: expected ErrVaultNotInitialized, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	target := newInitializedTarget(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passphrase := pass("passphrase")
	_, err := Get(ctx, GetOptions{Target: target, Name: "x", Passphrase: passphrase})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if passphrase[0] != 0 {
		t.Errorf("Expected passphrase to be wiped on cancel")
	}
}

func TestAuditDisabled(t *testing.T) {
	target := newTarget(t)
	target.Settings.Audit = false

	if _, err := Init(context.Background(), InitOptions{Target: target}); err != nil {
		t.Fatal(err)
	}
	add(t, target, "github", "s3cr3t")

	if _, err := os.Stat(target.Settings.AuditPath); !os.IsNotExist(err) {
		t.Errorf("Expected no audit log when auditing is disabled")
	}
}

func TestAuditNeverRecordsValues(t *testing.T) {
	target := newInitializedTarget(t)
	add(t, target, "github", "very-secret-value")

	data, err := os.ReadFile(target.Settings.AuditPath)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("very-secret-value")) || bytes.Contains(data, []byte("passphrase")) {
		t.Errorf("Audit log leaked secret material: %s", data)
	}
}

func TestAuditFailureDoesNotFailOperation(t *testing.T) {
	target := newTarget(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	target.Settings.AuditPath = filepath.Join(blocker, "audit.jsonl")

	if _, err := Init(context.Background(), InitOptions{Target: target}); err != nil {
		t.Fatalf("Init failed because of the audit log: %v", err)
	}
	add(t, target, "github", "s3cr3t")
}

func TestClean(t *testing.T) {
	target := newInitializedTarget(t)
	ctx := context.Background()
	add(t, target, "kept", "v")

	stale := filepath.Join(target.Settings.VaultPath, ".tmp-0a1b")
	if err := os.WriteFile(stale, []byte("partial"), 0600); err != nil {
		t.Fatal(err)
	}

	result, err := Clean(ctx, CleanOptions{Target: target, DryRun: true})
	if err != nil {
		t.Fatalf("Clean dry-run failed: %v", err)
	}
	if len(result.Stale) != 1 || result.RemovedCount != 0 {
		t.Errorf("Unexpected dry-run result: %+v", result)
	}
	if _, err := os.Stat(stale); err != nil {
		t.Errorf("Dry run removed the temp file")
	}

	result, err = Clean(ctx, CleanOptions{Target: target})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if result.RemovedCount != 1 {
		t.Errorf("Expected 1 removed file, got %d", result.RemovedCount)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("Expected temp file to be removed")
	}

	got, err := Get(ctx, GetOptions{Target: target, Name: "kept", Passphrase: pass("passphrase")})
	if err != nil || string(got.Value) != "v" {
		t.Errorf("Clean touched a real entry: %v", err)
	}
}
