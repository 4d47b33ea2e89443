package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dslans/bot-aitools/config"
	"github.com/dslans/bot-aitools/models"
)

const aiMaxTokens = 500

var ErrAIUnavailable = errors.New("ai service not configured")

// AIService generates a summary, target audience and tags for a submitted
// tool. It is a black box to callers: on any failure the entry is still
// created with placeholder fields.
type AIService interface {
	GenerateSummaryAndTags(ctx context.Context, title, content string) (*models.AIResult, error)
}

type aiService struct {
	client  anthropic.Client
	model   string
	enabled bool
	log     *slog.Logger
}

func NewAIService(cfg *config.Config, log *slog.Logger) AIService {
	return &aiService{
		client:  anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:   cfg.AnthropicModel,
		enabled: cfg.AnthropicAPIKey != "",
		log:     log,
	}
}

func (s *aiService) GenerateSummaryAndTags(ctx context.Context, title, content string) (*models.AIResult, error) {
	if !s.enabled {
		return nil, ErrAIUnavailable
	}

	prompt := buildEnrichmentPrompt(title, content)

	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: aiMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment call for %q: %w", title, err)
	}
	if len(msg.Content) == 0 {
		return nil, fmt.Errorf("empty enrichment response for %q", title)
	}

	result := parseAIResponse(msg.Content[0].Text)
	s.log.Info("ai enrichment generated",
		slog.String("title", title),
		slog.Int("tags", len(result.Tags)))
	return result, nil
}

func buildEnrichmentPrompt(title, content string) string {
	return fmt.Sprintf(`Analyze this AI coding tool and provide:
1. A concise summary (max 100 words) that explains what the tool does and its key benefits
2. A one-line description of who benefits most from the tool
3. Relevant tags for categorization

Tool: %s
Content: %s

Format your response as:
SUMMARY: [your summary here]
AUDIENCE: [who the tool is best for]
TAGS: [tag1, tag2, tag3, ...]

Focus on:
- What the tool does
- Key features or benefits
- Target use cases

%s`, title, truncate(content, maxContentChars), config.PromptTagsSection())
}

// parseAIResponse reads the line-oriented SUMMARY/AUDIENCE/TAGS format. The
// model does not always comply, so unknown shapes fall back to treating the
// leading text as the summary.
func parseAIResponse(text string) *models.AIResult {
	result := &models.AIResult{}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "SUMMARY:"):
			result.Summary = strings.TrimSpace(line[len("SUMMARY:"):])
		case strings.HasPrefix(upper, "AUDIENCE:"):
			result.TargetAudience = strings.TrimSpace(line[len("AUDIENCE:"):])
		case strings.HasPrefix(upper, "TAGS:"):
			result.Tags = parseTagLine(line[len("TAGS:"):])
		}
	}

	if result.Summary == "" && text != "" {
		words := strings.Fields(text)
		if len(words) > 100 {
			words = words[:100]
		}
		result.Summary = strings.Join(words, " ")
	}

	return result
}

func parseTagLine(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	return config.ValidateTags(strings.Split(raw, ","))
}
