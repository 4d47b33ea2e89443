package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dslans/bot-aitools/models"

	"golang.org/x/net/html"
	validator "gopkg.in/go-playground/validator.v9"
)

const (
	scrapeTimeout   = 10 * time.Second
	scrapeReadLimit = 128 * 1024
	maxTitleLength  = 200
	maxContentChars = 2000
	userAgent       = "Mozilla/5.0 (Compatible AI Tools Wiki Bot)"
)

type ScraperService interface {
	IsValidURL(raw string) bool
	Scrape(ctx context.Context, url string) (*models.PageMetadata, error)
}

type scraperService struct {
	client   *http.Client
	validate *validator.Validate
}

func NewScraperService() ScraperService {
	return &scraperService{
		client:   &http.Client{Timeout: scrapeTimeout},
		validate: validator.New(),
	}
}

func (s *scraperService) IsValidURL(raw string) bool {
	return s.validate.Var(raw, "required,url") == nil
}

// Scrape fetches a page and extracts title plus description text for the
// enrichment prompt.
func (s *scraperService) Scrape(ctx context.Context, url string) (*models.PageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, scrapeReadLimit))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return extractMetadata(doc), nil
}

type pageParts struct {
	title       string
	h1          string
	ogTitle     string
	twTitle     string
	metaDesc    string
	ogDesc      string
	paragraphs  []string
	paraCharLen int
}

func extractMetadata(doc *html.Node) *models.PageMetadata {
	parts := &pageParts{}
	walk(doc, parts)

	meta := &models.PageMetadata{}

	// Title preference: og:title, twitter:title, <title>, first <h1>.
	for _, t := range []string{parts.ogTitle, parts.twTitle, parts.title, parts.h1} {
		t = strings.TrimSpace(t)
		if t != "" {
			if len(t) > maxTitleLength {
				t = t[:maxTitleLength]
			}
			meta.Title = t
			break
		}
	}

	desc := strings.TrimSpace(parts.metaDesc)
	if desc == "" {
		desc = strings.TrimSpace(parts.ogDesc)
	}
	meta.Description = desc

	content := []string{}
	if desc != "" {
		content = append(content, desc)
	}
	content = append(content, parts.paragraphs...)
	meta.Content = truncate(strings.Join(content, " "), maxContentChars)

	return meta
}

func walk(n *html.Node, parts *pageParts) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			if parts.title == "" {
				parts.title = textContent(n)
			}
		case "h1":
			if parts.h1 == "" {
				parts.h1 = textContent(n)
			}
		case "meta":
			name := attr(n, "name")
			property := attr(n, "property")
			content := attr(n, "content")
			switch {
			case property == "og:title":
				parts.ogTitle = content
			case property == "og:description":
				parts.ogDesc = content
			case name == "twitter:title":
				parts.twTitle = content
			case name == "description":
				parts.metaDesc = content
			}
		case "p":
			if parts.paraCharLen < maxContentChars {
				text := strings.TrimSpace(textContent(n))
				// Skip boilerplate-sized fragments.
				if len(text) > 30 {
					parts.paragraphs = append(parts.paragraphs, text)
					parts.paraCharLen += len(text)
				}
			}
			return
		case "script", "style", "nav", "footer":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, parts)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
