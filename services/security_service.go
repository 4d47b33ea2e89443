package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dslans/bot-aitools/config"
	"github.com/dslans/bot-aitools/models"
)

const (
	guidelinesCacheTTL  = 24 * time.Hour
	guidelinesMaxChars  = 3000
	securityMaxDisplay  = 80
	fetchTimeout        = 30 * time.Second
	pendingReviewStatus = models.SecurityReview
)

// SecurityService classifies a submitted tool against company guidelines
// using the LLM. It never fails the submission: anything it cannot evaluate
// lands in review.
type SecurityService interface {
	Evaluate(ctx context.Context, input models.SecurityInput) (models.SecurityStatus, string)
}

type securityService struct {
	client        anthropic.Client
	model         string
	guidelinesURL string
	enabled       bool
	httpClient    *http.Client
	log           *slog.Logger

	mu          sync.Mutex
	cached      string
	cachedUntil time.Time
}

func NewSecurityService(cfg *config.Config, log *slog.Logger) SecurityService {
	return &securityService{
		client:        anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:         cfg.AnthropicModel,
		guidelinesURL: cfg.SecurityGuidelinesURL,
		enabled:       cfg.AnthropicAPIKey != "" && cfg.SecurityGuidelinesURL != "",
		httpClient:    &http.Client{Timeout: fetchTimeout},
		log:           log,
	}
}

func (s *securityService) Evaluate(ctx context.Context, input models.SecurityInput) (models.SecurityStatus, string) {
	if !s.enabled {
		return pendingReviewStatus, "Pending security review"
	}

	guidelines, err := s.fetchGuidelines(ctx)
	if err != nil {
		s.log.Warn("security guidelines unavailable", slog.String("error", err.Error()))
		return pendingReviewStatus, "Security guidelines unavailable"
	}

	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: aiMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildSecurityPrompt(input, guidelines))),
		},
	})
	if err != nil {
		s.log.Warn("security evaluation failed", slog.String("title", input.Title), slog.String("error", err.Error()))
		return pendingReviewStatus, "Security check failed - needs manual review"
	}
	if len(msg.Content) == 0 {
		return pendingReviewStatus, "No security evaluation available"
	}

	return parseSecurityResponse(msg.Content[0].Text)
}

// fetchGuidelines loads the guideline document, serving a cached copy for up
// to 24h. A stale cached copy beats no guidelines when the fetch fails.
func (s *securityService) fetchGuidelines(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" && time.Now().Before(s.cachedUntil) {
		return s.cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.guidelinesURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		if s.cached != "" {
			return s.cached, nil
		}
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		if s.cached != "" {
			return s.cached, nil
		}
		return "", fmt.Errorf("guidelines fetch: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, scrapeReadLimit))
	if err != nil {
		return "", err
	}

	s.cached = string(body)
	s.cachedUntil = time.Now().Add(guidelinesCacheTTL)
	return s.cached, nil
}

func buildSecurityPrompt(input models.SecurityInput, guidelines string) string {
	if len(guidelines) > guidelinesMaxChars {
		guidelines = guidelines[:guidelinesMaxChars] + "...[truncated]"
	}

	url := input.URL
	if url == "" {
		url = "No URL provided"
	}

	return fmt.Sprintf(`Evaluate this AI tool against the company security guidelines:

TOOL INFORMATION:
Title: %s
URL: %s
Summary: %s
Tags: %s

SECURITY GUIDELINES:
%s

TASK:
Based on the security guidelines, evaluate if this tool should be:
1. APPROVED - Meets all security requirements and is safe to use
2. RESTRICTED - Can be used with limitations or for specific purposes only
3. PROHIBITED - Violates security policies and should not be used
4. REVIEW - Requires security team review (unclear or needs more info)

Provide your evaluation in this exact format:
STATUS: [APPROVED/RESTRICTED/PROHIBITED/REVIEW]
DISPLAY: [A brief, user-friendly message (max 80 characters) explaining the status]

Be specific but concise in the DISPLAY message. Focus on what users need to know.`,
		input.Title, url, input.Summary, strings.Join(input.Tags, ", "), guidelines)
}

func parseSecurityResponse(text string) (models.SecurityStatus, string) {
	status := pendingReviewStatus
	display := "Pending security review"

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "STATUS:"):
			switch strings.TrimSpace(upper[len("STATUS:"):]) {
			case "APPROVED":
				status = models.SecurityApproved
			case "RESTRICTED":
				status = models.SecurityRestricted
			case "PROHIBITED":
				status = models.SecurityProhibited
			case "REVIEW":
				status = models.SecurityReview
			}
		case strings.HasPrefix(upper, "DISPLAY:"):
			display = strings.TrimSpace(line[len("DISPLAY:"):])
			if len(display) > securityMaxDisplay {
				display = display[:securityMaxDisplay-3] + "..."
			}
		}
	}

	return status, display
}
