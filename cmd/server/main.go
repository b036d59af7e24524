// Command server exposes the bot's control surface over HTTP: trigger
// a batch run, inspect or rotate credentials, patch a cached answer,
// and read the audit log.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"github.com/cpunion/replybot/pkg/answers"
	"github.com/cpunion/replybot/pkg/audit"
	"github.com/cpunion/replybot/pkg/bot"
	"github.com/cpunion/replybot/pkg/config"
	"github.com/cpunion/replybot/pkg/graph"
	"github.com/cpunion/replybot/pkg/llm"
	"github.com/cpunion/replybot/pkg/reply"
)

type server struct {
	mu        sync.Mutex
	creds     config.Credentials
	credsPath string

	store    *answers.Store
	resolver *reply.Resolver
	auditLog *audit.Log
	pace     time.Duration
}

func main() {
	_ = godotenv.Load()

	modelDefault := envOr("GOOGLE_MODEL", "gemini-3-flash-preview")

	addr := flag.String("addr", ":8000", "Listen address")
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
		log.Fatalf("Invalid credentials, update %s and restart: %v", *credsPath, err)
	}

	provider, err := llm.NewGeminiProvider(ctx, llm.GeminiConfig{Model: *modelName})
	if err != nil {
		log.Fatalf("Failed to create Gemini provider: %v", err)
	}

	store := answers.NewStore(filepath.Join(*dataPath, "user_comment_answer.txt"))
	srv := &server{
		creds:     creds,
		credsPath: *credsPath,
		store:     store,
		resolver:  reply.NewResolver(store, provider),
		auditLog:  audit.NewLog(filepath.Join(*dataPath, "log.txt")),
		pace:      *pace,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/process-comments", withJSON(srv.handleProcess))
	mux.HandleFunc("/api/credentials", withJSON(srv.handleCredentials))
	mux.HandleFunc("/api/answers", withJSON(srv.handleAnswers))
	mux.HandleFunc("/api/logs", withJSON(srv.handleLogs))

	log.Printf("replybot control server listening on %s (model %s)", *addr, provider.Model())
	if err := http.ListenAndServe(*addr, logRequest(mux)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// handleProcess launches a batch run in the background and returns an
// acknowledgement right away. Per-comment outcomes land in the audit
// log, not in this response.
func (s *server) handleProcess(_ http.ResponseWriter, r *http.Request) (any, int, error) {
	if r.Method != http.MethodPost {
		return nil, http.StatusMethodNotAllowed, fmt.Errorf("use POST")
	}

	// Each run gets a client built from the credentials current at
	// trigger time; a later rotation does not disturb it.
	s.mu.Lock()
	creds := s.creds
	s.mu.Unlock()

	b := bot.New(bot.Config{
		API:           graph.NewClient(graph.Config{Credentials: creds}),
		Resolver:      s.resolver,
		Audit:         s.auditLog,
		DispatchEvery: s.pace,
	})
	runID := b.StartBatch(context.Background())

	return map[string]any{
		"status": "Processing comments",
		"run_id": runID,
	}, http.StatusAccepted, nil
}

func (s *server) handleCredentials(_ http.ResponseWriter, r *http.Request) (any, int, error) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		creds := s.creds
		s.mu.Unlock()
		return map[string]string{
			"access_token": creds.AccessToken,
			"post_id":      creds.PostID,
		}, http.StatusOK, nil

	case http.MethodPost:
		var body struct {
			AccessToken string `json:"access_token"`
			PostID      string `json:"post_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err)
		}
		next := config.Credentials{AccessToken: body.AccessToken, PostID: body.PostID}
		if err := next.Validate(); err != nil {
			return nil, http.StatusBadRequest, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := next.Save(s.credsPath); err != nil {
			return nil, http.StatusInternalServerError, fmt.Errorf("save credentials: %w", err)
		}
		s.creds = next
		return map[string]string{"status": "success"}, http.StatusOK, nil

	default:
		return nil, http.StatusMethodNotAllowed, fmt.Errorf("use GET or POST")
	}
}

func (s *server) handleAnswers(_ http.ResponseWriter, r *http.Request) (any, int, error) {
	if r.Method != http.MethodPost {
		return nil, http.StatusMethodNotAllowed, fmt.Errorf("use POST")
	}

	var body struct {
		Comment string `json:"comment"`
		Answer  string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err)
	}
	if body.Comment == "" || body.Answer == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("both comment and answer are required")
	}

	if err := s.store.Upsert(body.Comment, body.Answer); err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("update answer: %w", err)
	}
	return map[string]string{"status": "success"}, http.StatusOK, nil
}

func (s *server) handleLogs(_ http.ResponseWriter, r *http.Request) (any, int, error) {
	if r.Method != http.MethodGet {
		return nil, http.StatusMethodNotAllowed, fmt.Errorf("use GET")
	}

	logs, err := s.auditLog.ReadAll()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return map[string]string{"status": "success", "logs": logs}, http.StatusOK, nil
}

func withJSON(handler func(http.ResponseWriter, *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, status, err := handler(w, r)
		if err != nil {
			writeJSON(w, status, map[string]any{
				"error": err.Error(),
			})
			return
		}
		writeJSON(w, status, payload)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
