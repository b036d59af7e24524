// Package types defines core types for the reply bot.
package types

import "time"

// Provenance identifies where a dispatched reply came from.
type Provenance string

const (
	// SourceCache is a reply served verbatim from the answer store.
	SourceCache Provenance = "exact-cache"
	// SourceFuzzy is reserved for near-match reuse. The resolver never
	// emits it today: non-exact matches always go through generation,
	// with the near match carried along as a prompt hint only.
	SourceFuzzy Provenance = "fuzzy-cache"
	// SourceGenerated is a freshly generated reply.
	SourceGenerated Provenance = "generated"
)

// Comment is one comment fetched from the remote post. Comments are
// immutable once fetched and live only for the batch run that fetched
// them.
type Comment struct {
	ID         string `json:"id"`
	AuthorName string `json:"author_name"`
	Text       string `json:"text"`
}

// Resolution is the outcome of resolving a reply for one comment.
type Resolution struct {
	Reply  string     `json:"reply"`
	Source Provenance `json:"source"`
}

// AuditRecord describes one dispatched reply for the audit trail.
type AuditRecord struct {
	Timestamp  time.Time  `json:"timestamp"`
	CommentID  string     `json:"comment_id"`
	AuthorName string     `json:"author_name"`
	Comment    string     `json:"comment"`
	Reply      string     `json:"reply"`
	Source     Provenance `json:"source"`
}
