package feed

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	userAgent    = "newsagent/1.0"
	acceptHeader = "application/rss+xml, application/atom+xml, application/xml, text/xml"
)

// RawItem is one normalized entry parsed from a feed document, before
// dedup and storage.
type RawItem struct {
	Title       string
	Link        string
	Description string
	GUID        string
	PublishedAt *time.Time
}

// Fetcher retrieves and parses one feed source per call. It is safe for
// concurrent use.
type Fetcher struct {
	client *http.Client
	parser *gofeed.Parser
}

// NewFetcher creates a Fetcher whose HTTP calls are bounded by the given
// timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		parser: gofeed.NewParser(),
	}
}

// Fetch retrieves the feed document at sourceURL and parses it into raw
// items. Entries without a title or link are skipped; titles have
// whitespace collapsed. All failures are reported as a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string) ([]RawItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: ErrorKindNetwork, Source: sourceURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: ErrorKindNetwork, Source: sourceURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Kind: ErrorKindHTTPStatus, Source: sourceURL, Status: resp.StatusCode}
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: ErrorKindParse, Source: sourceURL, Err: err}
	}

	items := make([]RawItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		title := collapseWhitespace(entry.Title)
		link := strings.TrimSpace(entry.Link)
		if title == "" || link == "" {
			continue
		}

		items = append(items, RawItem{
			Title:       title,
			Link:        link,
			Description: collapseWhitespace(entry.Description),
			GUID:        entry.GUID,
			PublishedAt: entry.PublishedParsed,
		})
	}

	return items, nil
}

// collapseWhitespace trims the string and folds internal runs of
// whitespace (including newlines feed publishers leave in titles) into
// single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
