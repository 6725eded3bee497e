// This file provides common functions for setting up test environments,
// capturing output, and stubbing terminal input.
package cmd

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/secman/internal/configs"
	"github.com/PolarWolf314/secman/internal/secrets"
)

// testKDF keeps key derivation cheap in tests.
var testKDF = secrets.KDFParams{Memory: 64, Iterations: 1, Parallelism: 1}

// testEnv is an isolated secman installation: vault, config file and audit log.
type testEnv struct {
	t         *testing.T
	vaultPath string
	config    string
	auditPath string
}

// setupTestEnvironment points secman at temporary paths and replaces every
// terminal prompt with one that fails the test unless stubbed.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	env := &testEnv{
		t:         t,
		vaultPath: filepath.Join(dir, "vault"),
		config:    filepath.Join(dir, "config", "config.toml"),
		auditPath: filepath.Join(dir, "data", "secman", "audit.jsonl"),
	}

	t.Setenv(configs.EnvVault, env.vaultPath)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	originalKDF := kdfParams
	originalPassphrase, originalTTY := readPassphrase, readPassphraseTTY
	originalSecret, originalStdin, originalConfirm := readSecret, readStdin, confirmInput
	t.Cleanup(func() {
		kdfParams = originalKDF
		readPassphrase, readPassphraseTTY = originalPassphrase, originalTTY
		readSecret, readStdin, confirmInput = originalSecret, originalStdin, originalConfirm
		ResetGlobalState()
	})

	kdfParams = testKDF
	unexpected := func(prompt string) ([]byte, error) {
		t.Errorf("unexpected prompt %q", prompt)
		return nil, errors.New("unexpected prompt")
	}
	readPassphrase = unexpected
	readPassphraseTTY = unexpected
	readSecret = unexpected
	readStdin = func() ([]byte, error) {
		t.Errorf("unexpected read from stdin")
		return nil, errors.New("unexpected stdin")
	}
	confirmInput = strings.NewReader("")

	return env
}

// run executes secman with args and returns everything written to stdout
// and stderr.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	ResetGlobalState()
	RootCmd.SetArgs(append([]string{"--config", e.config}, args...))
	return captureOutput(Execute)
}

// mustRun is run that fails the test on error.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	output, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("secman %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output)
	}
	return output
}

// stubPassphrases answers passphrase prompts, on stdin and on the TTY, with
// answers in order.
func (e *testEnv) stubPassphrases(answers ...string) {
	next := func(prompt string) ([]byte, error) {
		if len(answers) == 0 {
			e.t.Errorf("unexpected prompt %q", prompt)
			return nil, errors.New("unexpected prompt")
		}
		answer := answers[0]
		answers = answers[1:]
		return []byte(answer), nil
	}
	readPassphrase = next
	readPassphraseTTY = next
}

// stubSecret answers the secret value prompt.
func (e *testEnv) stubSecret(value string) {
	readSecret = func(string) ([]byte, error) {
		return []byte(value), nil
	}
}

// stubStdin provides piped stdin data for add --stdin.
func (e *testEnv) stubStdin(value string) {
	readStdin = func() ([]byte, error) {
		return []byte(value), nil
	}
}

// stubConfirm answers the next confirmation prompt.
func (e *testEnv) stubConfirm(answer string) {
	confirmInput = strings.NewReader(answer + "\n")
}

// initVault runs secman init.
func (e *testEnv) initVault() {
	e.t.Helper()
	e.mustRun("init")
}

// addEntry runs secman add with the given passphrase. The first add to a
// vault confirms the passphrase.
func (e *testEnv) addEntry(name, value, passphrase string, first bool) {
	e.t.Helper()
	if first {
		e.stubPassphrases(passphrase, passphrase)
	} else {
		e.stubPassphrases(passphrase)
	}
	e.stubSecret(value)
	e.mustRun("add", name)
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	stdout, stderr, err := captureStreams(fn)
	return stdout + stderr, err
}

// captureStreams captures stdout and stderr separately during function execution.
func captureStreams(fn func() error) (string, string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Start goroutines to read from pipes
	read := func(r *os.File) <-chan string {
		ch := make(chan string, 1)
		go func() {
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, r); err != nil {
				log.Fatalf("Failed to run copy command: %s", err)
			}
			ch <- buf.String()
		}()
		return ch
	}
	stdoutChan := read(stdoutReader)
	stderrChan := read(stderrReader)

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan, <-stderrChan, err
}
