package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// TimestampFormat is the layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Operation names recorded in the log.
const (
	OpInit   = "init"
	OpAdd    = "add"
	OpGet    = "get"
	OpRemove = "remove"
	OpClean  = "clean"
)

// Entry represents a single audit log entry. It never carries secret values.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	ID        string `json:"id"` // Unique per operation.
	Operation string `json:"op"`
	Vault     string `json:"vault"` // Absolute vault path.

	// Optional fields depending on operation.
	Name         string `json:"entry,omitempty"`         // For add/get/remove.
	RemovedCount int    `json:"removed_count,omitempty"` // For clean.
}

// NewEntry returns an entry for op on the vault at vaultPath with a fresh ID.
func NewEntry(op, vaultPath string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Operation: op,
		Vault:     vaultPath,
	}
}

// Time parses the entry timestamp.
func (e Entry) Time() (time.Time, error) {
	t, err := time.Parse(TimestampFormat, e.Timestamp)
	if err != nil {
		t, err = time.Parse(time.RFC3339, e.Timestamp)
	}
	return t, err
}

// Log appends an entry to the audit log at logPath.
// If logging fails, nothing is reported: operations should not fail just
// because audit logging failed. An empty logPath disables logging.
func Log(logPath string, entry Entry) {
	_ = Append(logPath, entry)
}

// Append is Log with the error returned, for callers that want to warn.
func Append(logPath string, entry Entry) error {
	if logPath == "" {
		return nil
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	// Write entry with newline.
	_, err = f.Write(append(data, '\n'))
	return err
}

// ReadEntries reads all entries from the audit log at logPath.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(logPath string) ([]Entry, error) {
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
