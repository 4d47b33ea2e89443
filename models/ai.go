package models

// AIResult is the parsed output of an enrichment call.
type AIResult struct {
	Summary        string
	TargetAudience string
	Tags           []string
}

// PageMetadata is what the scraper extracts from a tool's web page.
type PageMetadata struct {
	Title       string
	Description string
	Content     string
}

// SecurityInput is the entry material fed to the security evaluation prompt.
type SecurityInput struct {
	Title   string
	URL     string
	Summary string
	Tags    []string
}
