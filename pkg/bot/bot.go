// Package bot orchestrates batch passes over unanswered comments.
package bot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/cpunion/replybot/pkg/audit"
	"github.com/cpunion/replybot/pkg/types"
)

// DefaultDispatchEvery is the minimum delay between the starts of two
// reply dispatches, protecting the upstream API's rate limit.
const DefaultDispatchEvery = 2 * time.Second

// CommentAPI is the remote comment source and sink.
type CommentAPI interface {
	ListComments(ctx context.Context) ([]types.Comment, error)
	HasReplies(ctx context.Context, commentID string) (bool, error)
	PostReply(ctx context.Context, commentID, text string) error
}

// Resolver produces a reply for one comment's text.
type Resolver interface {
	Resolve(ctx context.Context, commentText string) types.Resolution
}

// Config configures a bot.
type Config struct {
	API      CommentAPI
	Resolver Resolver
	Audit    *audit.Log

	// DispatchEvery is the minimum delay between dispatch starts.
	// Defaults to DefaultDispatchEvery.
	DispatchEvery time.Duration
}

// Bot runs batch passes over the target post.
type Bot struct {
	api      CommentAPI
	resolver Resolver
	audit    *audit.Log
	limiter  *rate.Limiter
}

// New creates a bot.
func New(cfg Config) *Bot {
	every := cfg.DispatchEvery
	if every <= 0 {
		every = DefaultDispatchEvery
	}
	return &Bot{
		api:      cfg.API,
		resolver: cfg.Resolver,
		audit:    cfg.Audit,
		limiter:  rate.NewLimiter(rate.Every(every), 1),
	}
}

// RunBatch processes every currently unanswered comment on the post
// and returns once all dispatched replies have finished. Dispatch
// starts are paced by the configured interval but the dispatches
// themselves overlap. A failure on one comment is logged and the rest
// of the batch continues; only a failed comment fetch aborts the run.
func (b *Bot) RunBatch(ctx context.Context) error {
	return b.run(ctx, uuid.NewString())
}

// StartBatch launches a batch run in the background and returns its
// run id immediately. Progress is only observable through the logs and
// the audit trail.
func (b *Bot) StartBatch(ctx context.Context) string {
	runID := uuid.NewString()
	go func() {
		if err := b.run(ctx, runID); err != nil {
			log.Printf("[run %s] batch failed: %v", runID, err)
		}
	}()
	return runID
}

func (b *Bot) run(ctx context.Context, runID string) error {
	comments, err := b.api.ListComments(ctx)
	if err != nil {
		return fmt.Errorf("fetch comments: %w", err)
	}
	if len(comments) == 0 {
		log.Printf("[run %s] no comments found", runID)
		return nil
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	for _, comment := range comments {
		answered, err := b.api.HasReplies(ctx, comment.ID)
		if err != nil {
			log.Printf("[run %s] failed to check replies for %s, skipping: %v", runID, comment.ID, err)
			continue
		}
		if answered {
			log.Printf("[run %s] skipping comment %s (already replied)", runID, comment.ID)
			continue
		}

		// Pace dispatch initiations; in-flight dispatches overlap.
		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}

		wg.Add(1)
		go func(comment types.Comment) {
			defer wg.Done()
			b.replyTo(ctx, runID, comment)
		}(comment)
	}
	return nil
}

func (b *Bot) replyTo(ctx context.Context, runID string, comment types.Comment) {
	res := b.resolver.Resolve(ctx, comment.Text)

	if err := b.api.PostReply(ctx, comment.ID, res.Reply); err != nil {
		log.Printf("[run %s] failed to reply to %s: %v", runID, comment.ID, err)
		return
	}
	log.Printf("[run %s] replied to %s (%s) [%s]", runID, comment.AuthorName, comment.ID, res.Source)

	rec := types.AuditRecord{
		Timestamp:  time.Now(),
		CommentID:  comment.ID,
		AuthorName: comment.AuthorName,
		Comment:    comment.Text,
		Reply:      res.Reply,
		Source:     res.Source,
	}
	if err := b.audit.Append(rec); err != nil {
		log.Printf("[run %s] failed to record reply to %s: %v", runID, comment.ID, err)
	}
}
