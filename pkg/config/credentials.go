// Package config loads and stores the bot's remote credentials.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Credentials identify the target post and authorize Graph API calls.
// A value is loaded once and passed to collaborators explicitly;
// nothing in the bot mutates shared credential state.
type Credentials struct {
	AccessToken string
	PostID      string
}

// Load reads credentials from a key=value file. A missing file yields
// zero credentials and no error; callers validate before use.
func Load(path string) (Credentials, error) {
	var c Credentials

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("open credentials: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "access_token":
			c.AccessToken = strings.TrimSpace(value)
		case "post_id":
			c.PostID = strings.TrimSpace(value)
		}
	}
	return c, scanner.Err()
}

// Save rewrites the credential file with the current values.
func (c Credentials) Save(path string) error {
	content := fmt.Sprintf("access_token=%s\npost_id=%s\n", c.AccessToken, c.PostID)
	return os.WriteFile(path, []byte(content), 0600)
}

// Validate reports the first missing field. Missing credentials are a
// startup error: the bot refuses to run without them.
func (c Credentials) Validate() error {
	if c.AccessToken == "" {
		return fmt.Errorf("missing access_token")
	}
	if c.PostID == "" {
		return fmt.Errorf("missing post_id")
	}
	return nil
}

// PageID returns the page part of a composite "page_post" post id, or
// "" when the post id has no page prefix.
func (c Credentials) PageID() string {
	if page, _, ok := strings.Cut(c.PostID, "_"); ok {
		return page
	}
	return ""
}
