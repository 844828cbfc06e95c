package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"
)

// Fetcher retrieves and parses RSS/Atom feeds over HTTP
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// contentFields lists item fields carrying article text, in priority order.
// The first non-empty value wins.
var contentFields = []func(*gofeed.Item) string{
	func(it *gofeed.Item) string { return it.Description },
	func(it *gofeed.Item) string { return it.Content },
	func(it *gofeed.Item) string {
		if it.ITunesExt == nil {
			return ""
		}
		return it.ITunesExt.Summary
	},
	func(it *gofeed.Item) string {
		if it.DublinCoreExt == nil || len(it.DublinCoreExt.Description) == 0 {
			return ""
		}
		return it.DublinCoreExt.Description[0]
	},
}

// NewFetcher creates a feed fetcher with the given per-feed timeout and user agent
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Fetch downloads and parses the feed at src.URL
func (f *Fetcher) Fetch(ctx context.Context, src domain.FeedSource) (*domain.ParsedFeed, error) {
	body, err := f.fetch(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", src.URL, err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	result := &domain.ParsedFeed{
		Title: feed.Title,
		Items: make([]domain.ParsedItem, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		parsed := domain.ParsedItem{
			Title:   item.Title,
			Link:    strings.TrimSpace(item.Link),
			Content: itemContent(item),
		}

		// published time, falls back to updated time
		if item.PublishedParsed != nil {
			parsed.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			parsed.Published = *item.UpdatedParsed
		}

		result.Items = append(result.Items, parsed)
	}

	return result, nil
}

// itemContent returns the first non-empty content-like field of the item
func itemContent(item *gofeed.Item) string {
	for _, field := range contentFields {
		if v := strings.TrimSpace(field(item)); v != "" {
			return v
		}
	}
	return ""
}

// fetch retrieves the raw feed body
func (f *Fetcher) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	addBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
