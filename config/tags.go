package config

import (
	"fmt"
	"sort"
	"strings"
)

// MaxTagsPerEntry caps how many tags an entry carries.
const MaxTagsPerEntry = 5

const maxTagLength = 30

// CoreTags is the fixed built-in tag vocabulary. Community tags are voted in
// on top of this set and never replace it.
var CoreTags = []string{
	// Primary use cases
	"code-assistant",
	"search-engine",
	"chatbot",
	"content-creation",
	"data-analysis",
	"design-tool",
	"productivity",
	"learning",

	// Target users
	"developer",
	"researcher",
	"business",
	"student",
	"creative",

	// Integration types
	"api-available",
	"no-code",
	"open-source",
	"browser-based",
	"mobile-app",

	// Specializations
	"language-model",
	"image-generation",
	"code-generation",
	"real-time-data",
	"automation",
	"voice-ai",
}

// TagDescriptions tells the AI when to use each core tag.
var TagDescriptions = map[string]string{
	"code-assistant":   "Tools that help with programming, debugging, code generation, pair programming",
	"search-engine":    "AI-powered search and information retrieval tools",
	"chatbot":          "Conversational AI for general purposes, Q&A, assistance",
	"content-creation": "Writing, copywriting, marketing content, blog posts, documentation",
	"data-analysis":    "Analytics, reporting, data insights, visualization tools",
	"design-tool":      "UI/UX design, graphics, creative visual tools, prototyping",
	"productivity":     "Task management, workflow automation, efficiency tools, scheduling",
	"learning":         "Educational tools, training, skill development, tutorials",
	"developer":        "Targeted at software developers, engineers, programmers",
	"researcher":       "Academic research, scientific analysis, literature review tools",
	"business":         "Enterprise and professional business applications, management",
	"student":          "Educational use, academic assistance, homework help",
	"creative":         "For artists, designers, content creators, writers",
	"api-available":    "Offers programmatic API access for integration",
	"no-code":          "User-friendly GUI, no technical skills required",
	"open-source":      "Open source projects and tools, free to use/modify",
	"browser-based":    "Web-based applications, no installation required",
	"mobile-app":       "Has mobile app versions available",
	"language-model":   "Based on large language models (LLM), text generation",
	"image-generation": "AI art, visual content creation, graphics generation",
	"code-generation":  "Automated code writing and generation, scaffolding",
	"real-time-data":   "Access to live, current information, real-time updates",
	"automation":       "Workflow automation, task scheduling, process optimization",
	"voice-ai":         "Speech recognition, voice synthesis, audio processing",
}

var coreTagSet = func() map[string]bool {
	set := make(map[string]bool, len(CoreTags))
	for _, t := range CoreTags {
		set[t] = true
	}
	return set
}()

// IsCoreTag reports whether the tag is part of the built-in vocabulary.
func IsCoreTag(tag string) bool {
	return coreTagSet[strings.ToLower(tag)]
}

// NormalizeTag lowercases and hyphenates a tag. Returns "" for tags that are
// empty or over the length cap after cleaning.
func NormalizeTag(tag string) string {
	cleaned := strings.ToLower(strings.TrimSpace(tag))
	cleaned = strings.ReplaceAll(cleaned, " ", "-")
	if cleaned == "" || len(cleaned) > maxTagLength {
		return ""
	}
	return cleaned
}

// ValidateTags normalizes a tag list, drops invalid entries and duplicates,
// and caps the result at MaxTagsPerEntry.
func ValidateTags(tags []string) []string {
	seen := map[string]bool{}
	cleaned := []string{}
	for _, tag := range tags {
		t := NormalizeTag(tag)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		cleaned = append(cleaned, t)
		if len(cleaned) == MaxTagsPerEntry {
			break
		}
	}
	return cleaned
}

// PromptTagsSection renders the core vocabulary for the enrichment prompt.
func PromptTagsSection() string {
	tags := make([]string, 0, len(TagDescriptions))
	for tag := range TagDescriptions {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var b strings.Builder
	b.WriteString("Available tags (choose 2-4 most relevant):\n")
	for _, tag := range tags {
		fmt.Fprintf(&b, "- %s: %s\n", tag, TagDescriptions[tag])
	}
	b.WriteString(`
Instructions:
- Select tags that best describe the tool's primary use case and target audience
- Prefer core functionality tags over secondary features
- Maximum 4 tags per tool
- Use exact tag names from the list above
`)
	return b.String()
}
