// Package answers implements the durable comment-to-reply store.
//
// The store is a flat file of "comment---reply" lines. It is reloaded
// in full for every operation; durable storage is the only source of
// truth. When several lines share a normalized key, the last line wins
// at load time, which is also the conflict policy for concurrent
// appends of the same new comment.
package answers

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Separator divides the comment key from the reply on each line.
const Separator = "---"

// Normalize reduces raw comment text to its cache key: surrounding
// whitespace trimmed and case folded. Punctuation is kept, so "price?"
// and "price" are distinct keys. Normalize is idempotent.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Store is a line-per-entry answer file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path. The file is
// created lazily on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads every entry into a map keyed by normalized comment text.
// A missing file is an empty store, not an error. On a read error the
// entries decoded so far are returned alongside the error so callers
// can degrade to "no cached answers".
func (s *Store) Load() (map[string]string, error) {
	entries := make(map[string]string)

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return entries, fmt.Errorf("open answer store: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		comment, reply, ok := strings.Cut(scanner.Text(), Separator)
		if !ok {
			continue
		}
		entries[Normalize(comment)] = strings.TrimSpace(reply)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("read answer store: %w", err)
	}
	return entries, nil
}

// Upsert inserts or replaces one entry and rewrites the whole file, so
// afterwards the file holds exactly one line per key.
func (s *Store) Upsert(rawComment, reply string) error {
	// An unreadable store does not block the write; the rewrite below
	// starts over from whatever entries could still be read.
	entries, _ := s.Load()
	entries[Normalize(rawComment)] = flatten(reply)

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s%s%s\n", k, Separator, entries[k])
	}
	return os.WriteFile(s.path, []byte(b.String()), 0644)
}

// Append adds one entry as a new line without touching existing ones.
// Duplicate keys are allowed; Load resolves them in favor of the most
// recent line.
func (s *Store) Append(rawComment, reply string) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open answer store for append: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s%s%s\n", Normalize(rawComment), Separator, flatten(reply)); err != nil {
		return fmt.Errorf("append answer: %w", err)
	}
	return nil
}

// flatten keeps a reply on a single stored line.
func flatten(reply string) string {
	return strings.Join(strings.Fields(reply), " ")
}
