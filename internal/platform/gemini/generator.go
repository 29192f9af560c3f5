// Package gemini implements the generation.Generator interface using
// Google's Gemini API to produce per-traveler packing lists.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/packlane/packlane-api/internal/config"
	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/generation"
)

// textGenerator abstracts the single Gemini call so tests can substitute a
// canned implementation without a network client.
type textGenerator interface {
	// generateText sends a prompt to the model and returns the response
	// text and finish reason.
	generateText(ctx context.Context, prompt string) (string, genai.FinishReason, error)
}

// Generator implements generation.Generator against the Gemini API. It makes
// exactly one model call per invocation; retry policy belongs to the caller,
// which classifies errors through the generation sentinels.
type Generator struct {
	logger *slog.Logger
	config config.LLMConfig
	model  textGenerator
}

// NewGenerator creates a Gemini-backed packing list generator.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger: logger.With("component", "gemini_generator"),
		config: cfg,
		model:  &genaiModel{client: client, cfg: cfg},
	}, nil
}

// genaiModel is the production textGenerator backed by the genai SDK.
type genaiModel struct {
	client *genai.Client
	cfg    config.LLMConfig
}

func (m *genaiModel) generateText(ctx context.Context, prompt string) (string, genai.FinishReason, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.cfg.ModelName, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		MaxOutputTokens:  int32(m.cfg.MaxOutputTokens),
	})
	if err != nil {
		return "", "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	return resp.Text(), resp.Candidates[0].FinishReason, nil
}

// itemSchema is a single packing item as returned by the model.
type itemSchema struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	Essential bool   `json:"essential"`
}

// responseSchema is the JSON document the model is instructed to return.
type responseSchema struct {
	Items []itemSchema `json:"items"`
}

// GeneratePackingList generates a packing list for a single traveler. API
// transport failures are wrapped in generation.ErrTransientFailure so the
// caller can retry; malformed or blocked responses are permanent.
func (g *Generator) GeneratePackingList(
	ctx context.Context,
	traveler domain.Traveler,
	tripCtx generation.TripContext,
) ([]domain.PackingItem, error) {
	prompt := buildPrompt(traveler, tripCtx)

	g.logger.DebugContext(ctx, "calling Gemini",
		"traveler", traveler.DisplayName(),
		"model", g.config.ModelName,
		"prompt_length", len(prompt))

	started := time.Now()
	text, finishReason, err := g.model.generateText(ctx, prompt)
	if err != nil {
		if errors.Is(err, generation.ErrInvalidResponse) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if finishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}

	items, err := parseItems(text, traveler)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "packing list generated",
		"traveler", traveler.DisplayName(),
		"item_count", len(items),
		"duration_ms", time.Since(started).Milliseconds())
	return items, nil
}

// parseItems decodes the model output into domain packing items, tolerating
// markdown code fences and normalizing categories and quantities.
func parseItems(text string, traveler domain.Traveler) ([]domain.PackingItem, error) {
	payload := extractJSON(text)

	var parsed responseSchema
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("%w: no items for %s", generation.ErrInvalidResponse, traveler.DisplayName())
	}

	items := make([]domain.PackingItem, 0, len(parsed.Items))
	for _, raw := range parsed.Items {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			continue
		}
		quantity := raw.Quantity
		if quantity < 1 {
			quantity = 1
		}
		items = append(items, domain.PackingItem{
			ID:        uuid.New(),
			Name:      name,
			Category:  normalizeCategory(raw.Category),
			Quantity:  quantity,
			Essential: raw.Essential,
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: all items for %s were empty", generation.ErrInvalidResponse, traveler.DisplayName())
	}
	return items, nil
}

// extractJSON strips markdown fences the model sometimes wraps around its
// JSON output and falls back to the outermost object.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		return strings.TrimSpace(trimmed)
	}
	if start := strings.Index(trimmed, "{"); start > 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			return trimmed[start : end+1]
		}
	}
	return trimmed
}

// validCategories are the packing list buckets the API exposes to clients.
var validCategories = map[string]bool{
	"clothing":    true,
	"toiletries":  true,
	"electronics": true,
	"documents":   true,
	"health":      true,
	"comfort":     true,
	"activities":  true,
	"baby":        true,
	"misc":        true,
}

// categoryAliases maps common off-schema category names the model produces
// to valid buckets.
var categoryAliases = map[string]string{
	"clothes":       "clothing",
	"hygiene":       "toiletries",
	"tech":          "electronics",
	"medical":       "health",
	"medicine":      "health",
	"papers":        "documents",
	"infant":        "baby",
	"miscellaneous": "misc",
	"sports":        "activities",
	"outdoor":       "activities",
	"recreation":    "activities",
	"entertainment": "activities",
}

var activityKeywords = []string{"ski", "snow", "hike", "beach", "camp", "bike", "sport", "swim", "surf"}

// normalizeCategory maps a raw model category to one of the valid buckets,
// defaulting to "misc".
func normalizeCategory(raw string) string {
	category := strings.ToLower(strings.TrimSpace(raw))
	if validCategories[category] {
		return category
	}
	if mapped, ok := categoryAliases[category]; ok {
		return mapped
	}
	for _, keyword := range activityKeywords {
		if strings.Contains(category, keyword) {
			return "activities"
		}
	}
	return "misc"
}
