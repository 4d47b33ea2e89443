package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dslans/bot-aitools/config"
	"github.com/dslans/bot-aitools/models"
)

func TestEvaluateDisabledFallsBackToReview(t *testing.T) {
	svc := NewSecurityService(&config.Config{}, testLogger())

	status, display := svc.Evaluate(context.Background(), models.SecurityInput{Title: "Tool"})
	assert.Equal(t, models.SecurityReview, status)
	assert.Equal(t, "Pending security review", display)
}

func TestFetchGuidelinesCaches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("No external AI tools may receive customer data."))
	}))
	defer srv.Close()

	svc := &securityService{
		guidelinesURL: srv.URL,
		httpClient:    srv.Client(),
		log:           testLogger(),
	}

	for i := 0; i < 3; i++ {
		text, err := svc.fetchGuidelines(context.Background())
		require.NoError(t, err)
		assert.Contains(t, text, "customer data")
	}
	assert.Equal(t, 1, hits)
}

func TestFetchGuidelinesServesStaleOnError(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("guideline text"))
	}))
	defer srv.Close()

	svc := &securityService{
		guidelinesURL: srv.URL,
		httpClient:    srv.Client(),
		log:           testLogger(),
	}

	_, err := svc.fetchGuidelines(context.Background())
	require.NoError(t, err)

	// Expire the cache and break the origin: the stale copy is still served.
	svc.cachedUntil = svc.cachedUntil.AddDate(0, 0, -2)
	fail = true
	text, err := svc.fetchGuidelines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "guideline text", text)
}

func TestBuildSecurityPromptTruncatesGuidelines(t *testing.T) {
	long := make([]byte, guidelinesMaxChars+500)
	for i := range long {
		long[i] = 'g'
	}
	prompt := buildSecurityPrompt(models.SecurityInput{Title: "Tool"}, string(long))
	assert.Contains(t, prompt, "[truncated]")
	assert.Contains(t, prompt, "No URL provided")
}
