// Package agent runs the reply-writing agent on top of ADK.
package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	adkagent "google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const appName = "replybot"

const defaultInstruction = `You answer comments left on a social media post, on behalf of the page owner.
Reply directly to the comment. Keep it short, friendly and concrete.
When a similar past answer is provided, stay consistent with it.
Do not mention that you are an AI.`

// Responder wraps an ADK llmagent so every reply request runs as one
// agent turn in a fresh session. It satisfies llm.Provider.
type Responder struct {
	mu      sync.Mutex
	seq     int
	runner  *runner.Runner
	session session.Service
}

// Config configures the responder.
type Config struct {
	Name        string    // agent name, defaults to "replybot"
	Model       model.LLM // required
	Instruction string    // defaults to a direct-reply persona
}

// New creates a responder backed by the given model.
func New(cfg Config) (*Responder, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("no LLM model configured")
	}
	name := cfg.Name
	if name == "" {
		name = appName
	}
	instruction := cfg.Instruction
	if instruction == "" {
		instruction = defaultInstruction
	}

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        name,
		Model:       cfg.Model,
		Description: "Auto-reply agent for post comments",
		Instruction: instruction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ADK agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Responder{runner: r, session: sessionService}, nil
}

// Generate runs one agent turn and returns the concatenated text of
// the model's response.
func (r *Responder) Generate(ctx context.Context, prompt string) (string, error) {
	r.mu.Lock()
	r.seq++
	sessionID := fmt.Sprintf("reply-%d", r.seq)
	r.mu.Unlock()

	if _, err := r.session.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    appName,
		SessionID: sessionID,
	}); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	msg := &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}

	var text strings.Builder
	var runErr error
	for event, err := range r.runner.Run(ctx, appName, sessionID, msg, adkagent.RunConfig{}) {
		if err != nil {
			runErr = err
			continue
		}
		if event != nil && event.Content != nil {
			for _, part := range event.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
		}
	}

	reply := strings.TrimSpace(text.String())
	if reply == "" {
		if runErr != nil {
			return "", runErr
		}
		return "", fmt.Errorf("agent produced no reply")
	}
	return reply, nil
}
