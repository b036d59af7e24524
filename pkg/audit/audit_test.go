package audit

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cpunion/replybot/pkg/types"
)

func TestLog_AppendAndReadAll(t *testing.T) {
	l := NewLog(filepath.Join(t.TempDir(), "log.txt"))

	ts := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	first := types.AuditRecord{
		Timestamp:  ts,
		CommentID:  "c1",
		AuthorName: "Alice",
		Comment:    "What is the price?",
		Reply:      "The price is $50",
		Source:     types.SourceGenerated,
	}
	second := types.AuditRecord{
		Timestamp:  ts.Add(2 * time.Second),
		CommentID:  "c2",
		AuthorName: "Bob",
		Comment:    "hours",
		Reply:      "10-6",
		Source:     types.SourceCache,
	}

	if err := l.Append(first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append(second); err != nil {
		t.Fatalf("Append: %v", err)
	}

	content, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines=%d, want 2", len(lines))
	}

	want := "2026-08-29 10:30:00 | Comment ID: c1 | Name: Alice | Comment: What is the price? | Replied: The price is $50 | Source: generated"
	if lines[0] != want {
		t.Fatalf("line[0]=%q\nwant     %q", lines[0], want)
	}
	if !strings.Contains(lines[1], "Source: exact-cache") {
		t.Fatalf("line[1]=%q, want exact-cache provenance", lines[1])
	}
}

func TestLog_AppendNeverRewrites(t *testing.T) {
	l := NewLog(filepath.Join(t.TempDir(), "log.txt"))

	rec := types.AuditRecord{
		Timestamp: time.Now(),
		CommentID: "c1",
		Source:    types.SourceGenerated,
	}
	for i := 0; i < 3; i++ {
		if err := l.Append(rec); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}

	content, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if got := strings.Count(content, "\n"); got != 3 {
		t.Fatalf("newlines=%d, want 3", got)
	}
}

func TestLog_ReadAllMissingFile(t *testing.T) {
	l := NewLog(filepath.Join(t.TempDir(), "log.txt"))
	content, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if content != "" {
		t.Fatalf("content=%q, want empty", content)
	}
}

func TestLog_MultilineFieldsStayOnOneLine(t *testing.T) {
	l := NewLog(filepath.Join(t.TempDir(), "log.txt"))
	rec := types.AuditRecord{
		Timestamp: time.Now(),
		CommentID: "c1",
		Comment:   "line one\nline two",
		Reply:     "a\nb",
		Source:    types.SourceGenerated,
	}
	if err := l.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	content, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if got := strings.Count(content, "\n"); got != 1 {
		t.Fatalf("newlines=%d, want exactly 1", got)
	}
	if !strings.Contains(content, "line one line two") {
		t.Fatalf("content=%q", content)
	}
}
