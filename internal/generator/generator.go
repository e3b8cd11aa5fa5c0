// Package generator produces tweet text from a user's content style.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pulsepost/internal/models"
)

// MaxTweetLength is Twitter's hard character limit.
const MaxTweetLength = 280

// Generator turns a content style into ready-to-publish tweet text for one
// user. The returned text always fits within MaxTweetLength.
type Generator interface {
	Generate(ctx context.Context, userID uint, style *models.ContentStyle) (string, error)
}

// SessionID derives the per-call identifier attached to generation requests
// for backend-side tracing. It carries no correctness weight.
func SessionID(userID uint, now time.Time) string {
	return fmt.Sprintf("post_gen_%d_%s", userID, now.UTC().Format(time.RFC3339))
}

var lengthHints = map[string]string{
	models.LengthShort:  "50-100 characters",
	models.LengthMedium: "100-200 characters",
	models.LengthLong:   "200-280 characters",
}

const systemInstruction = "You are an expert social media content creator. Generate engaging tweets that are exactly within Twitter's 280 character limit."

// BuildPrompt assembles the model prompt from the style knobs.
func BuildPrompt(style *models.ContentStyle) string {
	hint, ok := lengthHints[style.Length]
	if !ok {
		hint = lengthHints[models.LengthMedium]
	}

	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}

	return fmt.Sprintf(`Generate a tweet about: %s

Tone: %s
Length: %s
Include hashtags: %s
Include emojis: %s

Rules:
1. Must be under 280 characters
2. Be engaging and authentic
3. No quotes around the tweet
4. Just return the tweet text, nothing else`,
		style.Topic, style.Tone, hint, yesNo(style.Hashtags), yesNo(style.Emojis))
}

// Truncate enforces the tweet length cap. Text over the limit is cut to 277
// characters plus an ellipsis; anything at or under the limit passes through
// unchanged. Counting is by runes so multibyte text is not split mid-character.
func Truncate(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= MaxTweetLength {
		return text
	}
	return string(runes[:MaxTweetLength-3]) + "..."
}
