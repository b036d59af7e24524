// Package graph is a minimal client for the comment endpoints of the
// Facebook Graph API.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cpunion/replybot/pkg/config"
	"github.com/cpunion/replybot/pkg/types"
)

// DefaultBaseURL is the production Graph API endpoint.
const DefaultBaseURL = "https://graph.facebook.com/v18.0"

// unknownAuthor stands in when the API omits the commenter's name.
const unknownAuthor = "Unknown"

// Client calls the Graph API for a single post. The access token and
// post id come from the credentials it was built with; build a new
// client to pick up updated credentials.
type Client struct {
	baseURL string
	creds   config.Credentials
	http    *http.Client
}

// Config configures a client.
type Config struct {
	BaseURL     string // defaults to DefaultBaseURL
	Credentials config.Credentials
	HTTPClient  *http.Client // defaults to a 30s-timeout client
}

// NewClient creates a Graph API client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		creds:   cfg.Credentials,
		http:    httpClient,
	}
}

type commentEnvelope struct {
	Data []struct {
		ID   string `json:"id"`
		From struct {
			Name string `json:"name"`
		} `json:"from"`
		Message string `json:"message"`
	} `json:"data"`
}

// ListComments fetches all comments on the configured post.
func (c *Client) ListComments(ctx context.Context) ([]types.Comment, error) {
	q := url.Values{}
	q.Set("access_token", c.creds.AccessToken)
	q.Set("fields", "id,from{name},message")

	var envelope commentEnvelope
	if err := c.get(ctx, fmt.Sprintf("%s/%s/comments", c.baseURL, c.creds.PostID), q, &envelope); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]types.Comment, 0, len(envelope.Data))
	for _, d := range envelope.Data {
		name := d.From.Name
		if name == "" {
			name = unknownAuthor
		}
		comments = append(comments, types.Comment{
			ID:         d.ID,
			AuthorName: name,
			Text:       d.Message,
		})
	}
	return comments, nil
}

// HasReplies reports whether a comment already has at least one reply.
func (c *Client) HasReplies(ctx context.Context, commentID string) (bool, error) {
	q := url.Values{}
	q.Set("access_token", c.creds.AccessToken)

	var envelope commentEnvelope
	if err := c.get(ctx, fmt.Sprintf("%s/%s/comments", c.baseURL, commentID), q, &envelope); err != nil {
		return false, fmt.Errorf("check replies for %s: %w", commentID, err)
	}
	return len(envelope.Data) > 0, nil
}

// PostReply posts a reply under a comment. A non-2xx response becomes
// an error carrying the diagnostic body the remote side returned.
func (c *Client) PostReply(ctx context.Context, commentID, text string) error {
	form := url.Values{}
	form.Set("access_token", c.creds.AccessToken)
	form.Set("message", text)

	endpoint := fmt.Sprintf("%s/%s/comments", c.baseURL, commentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post reply to %s: %w", commentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post reply to %s: status %d: %s", commentID, resp.StatusCode, readDiagnostic(resp.Body))
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, readDiagnostic(resp.Body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// readDiagnostic captures a bounded chunk of an error response body.
func readDiagnostic(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 4096))
	return strings.TrimSpace(string(body))
}
