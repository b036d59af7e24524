package answers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize_Idempotent(t *testing.T) {
	cases := []string{
		"  What is the PRICE?  ",
		"what is the price?",
		"",
		"\tMixed Case\n",
	}
	for _, s := range cases {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
	if got := Normalize("  What is the PRICE?  "); got != "what is the price?" {
		t.Fatalf("Normalize=%q, punctuation must be kept", got)
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "answers.txt"))
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries=%d, want 0", len(entries))
	}
}

func TestStore_AppendShadowing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "answers.txt"))

	if err := s.Append("What is the price?", "It is $40"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append("what is the price?  ", "It is $50"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries=%d, want 1 (same normalized key)", len(entries))
	}
	if got := entries["what is the price?"]; got != "It is $50" {
		t.Fatalf("entry=%q, want the later append to win", got)
	}
}

func TestStore_UpsertRewritesWithoutDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.txt")
	s := NewStore(path)

	// Seed duplicate lines through the append path.
	for _, reply := range []string{"a", "b", "c"} {
		if err := s.Append("hello", reply); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := s.Upsert("Hello", "final"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello---final\n" {
		t.Fatalf("file=%q, want a single collapsed line", string(data))
	}
}

func TestStore_AppendFlattensMultilineReplies(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "answers.txt"))
	if err := s.Append("ship dates", "We ship\nevery Monday"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := entries["ship dates"]; got != "We ship every Monday" {
		t.Fatalf("entry=%q, multi-line replies must stay on one line", got)
	}
}

func TestStore_LoadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.txt")
	content := "no separator here\nq1---a1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	entries, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 1 || entries["q1"] != "a1" {
		t.Fatalf("entries=%v, want only q1", entries)
	}
}
