package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"
)

func TestGenerator_GenerateRSS(t *testing.T) {
	pubTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	articles := []domain.Article{
		{
			ID:          1,
			Title:       "Stocks rally",
			Link:        "https://example.com/stocks",
			Summary:     "Stocks rallied on strong earnings.",
			Source:      "Markets",
			PublishedAt: pubTime,
			Tags:        []string{},
			Importance:  domain.ImportanceNormal,
		},
		{
			ID:          2,
			Title:       "Bonds slip",
			Link:        "https://example.com/bonds",
			Summary:     "Summary error.",
			Source:      "Rates",
			PublishedAt: pubTime.Add(-time.Hour),
			Tags:        []string{"rates"},
		},
	}

	t.Run("all articles", func(t *testing.T) {
		rss, err := NewGenerator("https://example.com", "").GenerateRSS(articles)
		require.NoError(t, err)

		assert.Contains(t, rss, `<?xml version="1.0" encoding="UTF-8"?>`)
		assert.Contains(t, rss, `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
		assert.Contains(t, rss, `<title>Trendboard</title>`)
		assert.Contains(t, rss, `<link>https://example.com/</link>`)
		assert.Contains(t, rss, `href="https://example.com/rss"`)

		assert.Contains(t, rss, `<title>Stocks rally</title>`)
		assert.Contains(t, rss, `<guid>https://example.com/stocks</guid>`)
		assert.Contains(t, rss, `<description>Stocks rallied on strong earnings.</description>`)
		assert.Contains(t, rss, `<source>Markets</source>`)
		assert.Contains(t, rss, `<pubDate>Mon, 01 Jan 2024 12:00:00 +0000</pubDate>`)
		assert.Contains(t, rss, `<category>rates</category>`)
		assert.Less(t, strings.Index(rss, "Stocks rally"), strings.Index(rss, "Bonds slip"), "order preserved")
	})

	t.Run("empty", func(t *testing.T) {
		rss, err := NewGenerator("https://example.com", "Custom").GenerateRSS(nil)
		require.NoError(t, err)
		assert.Contains(t, rss, `<title>Custom</title>`)
		assert.Contains(t, rss, `<channel>`)
		assert.NotContains(t, rss, `<item>`)
	})

	t.Run("trailing slash in base URL", func(t *testing.T) {
		rss, err := NewGenerator("https://example.com/", "").GenerateRSS(articles[:1])
		require.NoError(t, err)
		assert.NotContains(t, rss, `https://example.com//`)
	})

	t.Run("special characters escaped", func(t *testing.T) {
		rss, err := NewGenerator("https://example.com", "").GenerateRSS([]domain.Article{
			{Title: "S&P <500>", Link: "https://example.com/sp", PublishedAt: pubTime},
		})
		require.NoError(t, err)
		assert.Contains(t, rss, "S&amp;P &lt;500&gt;")
	})
}
