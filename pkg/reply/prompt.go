package reply

import "fmt"

// BuildPrompt embeds the raw comment text and, when one exists, the
// closest stored answer as a consistency hint.
func BuildPrompt(commentText, hint string) string {
	if hint == "" {
		return fmt.Sprintf("Comment: %s\nProvide a direct response.", commentText)
	}
	return fmt.Sprintf("Comment: %s\nSimilar Answer: %s\nProvide a direct response.", commentText, hint)
}
