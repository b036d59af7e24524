// Package audit keeps the append-only trail of dispatched replies.
package audit

import (
	"fmt"
	"os"
	"strings"

	"github.com/cpunion/replybot/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// Log is a newline-delimited, human-readable audit file. Lines are
// only ever appended; nothing rewrites or truncates past records.
type Log struct {
	path string
}

// NewLog creates a log backed by the given file path.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes one record as a single line and syncs it to disk
// before returning.
func (l *Log) Append(rec types.AuditRecord) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s | Comment ID: %s | Name: %s | Comment: %s | Replied: %s | Source: %s\n",
		rec.Timestamp.Format(timeLayout),
		rec.CommentID,
		rec.AuthorName,
		flatten(rec.Comment),
		flatten(rec.Reply),
		rec.Source,
	)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return f.Sync()
}

// ReadAll returns the raw log contents for external inspection. A
// missing file reads as empty.
func (l *Log) ReadAll() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read audit log: %w", err)
	}
	return string(data), nil
}

// flatten keeps multi-line text on a single audit line.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
