package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/idna"
)

const (
	// MaxInsightLength caps the scraped text, in characters.
	MaxInsightLength = 500
	paragraphLimit   = 3

	RestrictedInsight = "Scraping restricted for this site. Using default insight."
)

var idnaProfile = idna.Lookup

// Insight is the outcome of scraping one homepage. Text is always usable: on failure
// it carries the fallback message and Err holds the cause.
type Insight struct {
	Text       string
	Restricted bool
	Err        error
}

// Scraper extracts paragraph text from company homepages.
type Scraper interface {
	Scrape(ctx context.Context, website string) Insight
}

// HomepageScraper fetches a homepage and keeps the first few paragraphs.
type HomepageScraper struct {
	client    *http.Client
	userAgent string
	blocked   []string
}

var _ Scraper = (*HomepageScraper)(nil)

// New wires a scraper. A nil client gets a 5s timeout.
func New(client *http.Client, userAgent string, blockedDomains []string) *HomepageScraper {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	blocked := make([]string, 0, len(blockedDomains))
	for _, fragment := range blockedDomains {
		fragment = strings.ToLower(strings.TrimSpace(fragment))
		if fragment != "" {
			blocked = append(blocked, fragment)
		}
	}
	return &HomepageScraper{client: client, userAgent: userAgent, blocked: blocked}
}

// Scrape never fails: errors are folded into the returned Insight.
func (s *HomepageScraper) Scrape(ctx context.Context, website string) Insight {
	if s.IsBlocked(website) {
		return Insight{Text: RestrictedInsight, Restricted: true}
	}

	text, err := s.fetchParagraphs(ctx, website)
	if err != nil {
		return Insight{Text: Truncate(sanitizeUTF8(FailureInsight(err)), MaxInsightLength), Err: err}
	}
	return Insight{Text: Truncate(sanitizeUTF8(text), MaxInsightLength)}
}

// FailureInsight renders the fallback text used when scraping fails.
func FailureInsight(err error) string {
	return fmt.Sprintf("Scraping failed: %v. Using default insight.", err)
}

// IsBlocked reports whether the website matches any blocked domain fragment,
// checking both the raw value and its ASCII (punycode) host.
func (s *HomepageScraper) IsBlocked(website string) bool {
	if len(s.blocked) == 0 {
		return false
	}
	candidates := []string{strings.ToLower(website)}
	if host := hostOf(website); host != "" {
		if ascii, err := idnaProfile.ToASCII(host); err == nil && ascii != "" {
			candidates = append(candidates, strings.ToLower(ascii))
		}
	}
	for _, candidate := range candidates {
		for _, fragment := range s.blocked {
			if strings.Contains(candidate, fragment) {
				return true
			}
		}
	}
	return false
}

func hostOf(website string) string {
	raw := strings.TrimSpace(website)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.Trim(u.Hostname(), ".")
}

func (s *HomepageScraper) fetchParagraphs(ctx context.Context, website string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, website, nil)
	if err != nil {
		return "", eris.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "request homepage")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", eris.Errorf("%s for url: %s", resp.Status, website)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", eris.Wrap(err, "decode charset")
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", eris.Wrap(err, "parse document")
	}

	return firstParagraphs(doc, paragraphLimit), nil
}

func firstParagraphs(doc *goquery.Document, limit int) string {
	parts := make([]string, 0, limit)
	doc.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		parts = append(parts, p.Text())
		return true
	})
	return strings.Join(parts, " ")
}

// sanitizeUTF8 drops invalid byte sequences and NUL bytes, both of which
// PostgreSQL rejects in TEXT columns.
func sanitizeUTF8(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// Truncate cuts s to at most max characters without splitting a multi-byte rune.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
