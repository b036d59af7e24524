// Command replybot runs one batch pass over the unanswered comments of
// the configured post, replying to each from the answer cache or the
// reply agent.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"

	"github.com/cpunion/replybot/pkg/agent"
	"github.com/cpunion/replybot/pkg/answers"
	"github.com/cpunion/replybot/pkg/audit"
	"github.com/cpunion/replybot/pkg/bot"
	"github.com/cpunion/replybot/pkg/config"
	"github.com/cpunion/replybot/pkg/graph"
	"github.com/cpunion/replybot/pkg/reply"
)

func main() {
	_ = godotenv.Load()

	modelDefault := envOr("GOOGLE_MODEL", "gemini-3-flash-preview")

	dataPath := flag.String("data", "./data", "Data directory")
	credsPath := flag.String("credentials", "", "Credentials file (default <data>/mydata.txt)")
	modelName := flag.String("model", modelDefault, "Gemini model for replies")
	pace := flag.Duration("pace", bot.DefaultDispatchEvery, "Minimum delay between reply dispatches")
	flag.Parse()

	ctx := context.Background()

	if err := os.MkdirAll(*dataPath, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if *credsPath == "" {
		*credsPath = filepath.Join(*dataPath, "mydata.txt")
	}

	creds, err := config.Load(*credsPath)
	if err != nil {
		log.Fatalf("Failed to read credentials: %v", err)
	}
	if err := creds.Validate(); err != nil {
		log.Fatalf("Invalid credentials, update %s and retry: %v", *credsPath, err)
	}

	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		log.Fatal("GOOGLE_API_KEY not set")
	}
	model, err := gemini.NewModel(ctx, *modelName, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("Failed to create model (%s): %v", *modelName, err)
	}

	responder, err := agent.New(agent.Config{Model: model})
	if err != nil {
		log.Fatalf("Failed to create reply agent: %v", err)
	}

	store := answers.NewStore(filepath.Join(*dataPath, "user_comment_answer.txt"))
	auditLog := audit.NewLog(filepath.Join(*dataPath, "log.txt"))
	client := graph.NewClient(graph.Config{Credentials: creds})

	b := bot.New(bot.Config{
		API:           client,
		Resolver:      reply.NewResolver(store, responder),
		Audit:         auditLog,
		DispatchEvery: *pace,
	})

	log.Printf("Processing comments on post %s (page %s)", creds.PostID, creds.PageID())
	start := time.Now()
	if err := b.RunBatch(ctx); err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}
	log.Printf("Batch run finished in %s", time.Since(start).Round(time.Millisecond))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
