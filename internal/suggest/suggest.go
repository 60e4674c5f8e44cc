// Package suggest produces a title for a freshly written journal entry.
// The suggestion comes from a chat model; any failure degrades to a fixed
// fallback title and is never shown to the user.
package suggest

import (
	"context"
	"strings"
)

// FallbackTitle is used whenever the suggester errors or returns nothing.
const FallbackTitle = "Untitled Entry"

// hintLimit caps how much of the entry is sent to the model.
const hintLimit = 300

// TitleSuggester proposes a title for journal content.
type TitleSuggester interface {
	Suggest(ctx context.Context, content string) (string, error)
}

// Title asks s for a title using at most the first 300 characters of
// content as a hint. It never fails: errors, empty replies, and a nil
// suggester all yield FallbackTitle.
func Title(ctx context.Context, s TitleSuggester, content string) string {
	if s == nil {
		return FallbackTitle
	}
	title, err := s.Suggest(ctx, Hint(content))
	if err != nil {
		return FallbackTitle
	}
	title = strings.TrimSpace(strings.Trim(strings.TrimSpace(title), `"`))
	if title == "" {
		return FallbackTitle
	}
	return title
}

// Hint truncates content to the suggestion hint limit, counting runes so a
// multibyte boundary is never split.
func Hint(content string) string {
	runes := []rune(content)
	if len(runes) <= hintLimit {
		return content
	}
	return string(runes[:hintLimit])
}
