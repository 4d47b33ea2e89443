package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dslans/bot-aitools/models"
)

func TestParseAIResponse(t *testing.T) {
	text := `SUMMARY: A pair-programming assistant that lives in your editor.
AUDIENCE: Developers who want inline completions.
TAGS: [code-assistant, developer, api-available]`

	result := parseAIResponse(text)
	assert.Equal(t, "A pair-programming assistant that lives in your editor.", result.Summary)
	assert.Equal(t, "Developers who want inline completions.", result.TargetAudience)
	assert.Equal(t, []string{"code-assistant", "developer", "api-available"}, result.Tags)
}

func TestParseAIResponseLowercasePrefixes(t *testing.T) {
	text := "summary: terse tool overview\ntags: chatbot, productivity"
	result := parseAIResponse(text)
	assert.Equal(t, "terse tool overview", result.Summary)
	assert.Equal(t, []string{"chatbot", "productivity"}, result.Tags)
}

func TestParseAIResponseFallbackSummary(t *testing.T) {
	words := make([]string, 150)
	for i := range words {
		words[i] = "word"
	}
	result := parseAIResponse(strings.Join(words, " "))
	assert.Len(t, strings.Fields(result.Summary), 100)
	assert.Empty(t, result.Tags)
}

func TestParseTagLineNormalizes(t *testing.T) {
	tags := parseTagLine(" [Code Assistant, DEVELOPER, code assistant] ")
	assert.Equal(t, []string{"code-assistant", "developer"}, tags)
}

func TestParseSecurityResponse(t *testing.T) {
	status, display := parseSecurityResponse("STATUS: APPROVED\nDISPLAY: Safe for general use")
	assert.Equal(t, models.SecurityApproved, status)
	assert.Equal(t, "Safe for general use", display)

	status, display = parseSecurityResponse("STATUS: PROHIBITED\nDISPLAY: Sends source code to third parties")
	assert.Equal(t, models.SecurityProhibited, status)
	assert.Equal(t, "Sends source code to third parties", display)
}

func TestParseSecurityResponseDefaultsToReview(t *testing.T) {
	status, display := parseSecurityResponse("I cannot determine this.")
	assert.Equal(t, models.SecurityReview, status)
	assert.Equal(t, "Pending security review", display)
}

func TestParseSecurityResponseTruncatesDisplay(t *testing.T) {
	long := strings.Repeat("a", 120)
	_, display := parseSecurityResponse("STATUS: RESTRICTED\nDISPLAY: " + long)
	assert.LessOrEqual(t, len(display), 80)
	assert.True(t, strings.HasSuffix(display, "..."))
}
