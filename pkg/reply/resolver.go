// Package reply decides how to answer a single comment: reuse a stored
// answer on an exact hit, or generate a new one and remember it.
package reply

import (
	"context"
	"log"
	"strings"

	"github.com/cpunion/replybot/pkg/answers"
	"github.com/cpunion/replybot/pkg/llm"
	"github.com/cpunion/replybot/pkg/match"
	"github.com/cpunion/replybot/pkg/types"
)

// FallbackReply is dispatched when generation fails. The failure is
// logged, not propagated; the batch keeps going.
const FallbackReply = "Sorry, I couldn't process your request."

// Resolver resolves replies against an answer store with a generative
// fallback. The store is reloaded from disk on every call.
type Resolver struct {
	store    *answers.Store
	provider llm.Provider
}

// NewResolver creates a resolver over the given store and generator.
func NewResolver(store *answers.Store, provider llm.Provider) *Resolver {
	return &Resolver{store: store, provider: provider}
}

// Resolve returns a reply for the given comment text.
//
// An exact hit on the normalized text answers straight from the store.
// Any other comment goes through generation, with the closest stored
// answer (whatever its score) passed along as a hint; the generated
// reply is appended to the store so the next identical comment is an
// exact hit. A near match never answers directly: generation always
// runs on non-exact comments.
//
// Empty comment text is valid and resolves like any other comment,
// under the empty key.
func (r *Resolver) Resolve(ctx context.Context, commentText string) types.Resolution {
	key := answers.Normalize(commentText)

	stored, err := r.store.Load()
	if err != nil {
		log.Printf("Answer store unreadable, resolving without cache: %v", err)
	}

	if reply, ok := stored[key]; ok {
		return types.Resolution{Reply: reply, Source: types.SourceCache}
	}

	var hint string
	if best, ok := match.Best(key, stored); ok {
		hint = best.Reply
	}

	generated, err := r.provider.Generate(ctx, BuildPrompt(commentText, hint))
	if err != nil {
		log.Printf("Generation failed for comment %q: %v", truncate(commentText, 80), err)
		return types.Resolution{Reply: FallbackReply, Source: types.SourceGenerated}
	}
	if strings.TrimSpace(generated) == "" {
		log.Printf("Generator returned an empty reply for comment %q", truncate(commentText, 80))
		return types.Resolution{Reply: FallbackReply, Source: types.SourceGenerated}
	}

	if err := r.store.Append(commentText, generated); err != nil {
		log.Printf("Failed to persist generated answer: %v", err)
	}
	return types.Resolution{Reply: generated, Source: types.SourceGenerated}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
