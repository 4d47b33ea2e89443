package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the pass-through configuration for the bot: chat platform
// credentials, AI endpoint, database target and the admin allow-list.
type Config struct {
	Port string

	SlackBotToken      string
	SlackSigningSecret string

	AnthropicAPIKey string
	AnthropicModel  string

	SecurityGuidelinesURL string

	MaxSearchResults int
	MaxListResults   int

	AdminUserIDs map[string]bool

	AdminAPIPasswordHash string

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	cfg := &Config{
		Port:                  getenv("PORT", "8080"),
		SlackBotToken:         os.Getenv("SLACK_BOT_TOKEN"),
		SlackSigningSecret:    os.Getenv("SLACK_SIGNING_SECRET"),
		AnthropicAPIKey:       os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:        getenv("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest"),
		SecurityGuidelinesURL: os.Getenv("SECURITY_GUIDELINES_URL"),
		MaxSearchResults:      getenvInt("MAX_SEARCH_RESULTS", 5),
		MaxListResults:        getenvInt("MAX_LIST_RESULTS", 10),
		AdminAPIPasswordHash:  os.Getenv("ADMIN_API_PASSWORD_HASH"),
		LogLevel:              getenv("LOG_LEVEL", "info"),
		LogFormat:             getenv("LOG_FORMAT", "text"),
		AdminUserIDs:          map[string]bool{},
	}

	for _, id := range strings.Split(os.Getenv("ADMIN_USER_IDS"), ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			cfg.AdminUserIDs[id] = true
		}
	}

	return cfg
}

// IsAdmin checks the caller against the configured admin set.
func (c *Config) IsAdmin(userID string) bool {
	return c.AdminUserIDs[userID]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
