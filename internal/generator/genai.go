package generator

import (
	"context"
	"fmt"
	"time"

	"pulsepost/internal/middleware"
	"pulsepost/internal/models"
	"pulsepost/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// GenAIGenerator generates tweet text using Google's Gemini API.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

// NewGenAIGenerator creates a generator backed by the Gemini API.
func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, models.NewMisconfiguredCredentialsError("GenAI")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIGenerator{client: client, model: model}, nil
}

// Generate produces one tweet for the given user's style. Model failures and
// empty responses surface as generation-failed errors; callers must not
// record a ledger entry for those.
func (g *GenAIGenerator) Generate(ctx context.Context, userID uint, style *models.ContentStyle) (string, error) {
	sessionID := SessionID(userID, time.Now())
	observability.AddTraceAttributesToContext(ctx, attribute.String("genai.session_id", sessionID))
	middleware.Logger.DebugContext(ctx, "generating content",
		"session_id", sessionID,
		"model", g.model,
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(BuildPrompt(style)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
	)
	if err != nil {
		return "", models.NewGenerationFailedError(err)
	}

	text := Truncate(resp.Text())
	if text == "" {
		return "", models.NewGenerationFailedError(fmt.Errorf("model returned empty text"))
	}
	return text, nil
}
