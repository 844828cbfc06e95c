package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"
)

// Generator renders stored articles as an RSS 2.0 feed
type Generator struct {
	baseURL string
	title   string
}

// NewGenerator creates a new feed generator, baseURL is the public address of the service
func NewGenerator(baseURL, title string) *Generator {
	if title == "" {
		title = "Trendboard"
	}
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		title:   title,
	}
}

// GenerateRSS creates an RSS 2.0 document from articles, keeping their order
func (g *Generator) GenerateRSS(articles []domain.Article) (string, error) {
	rssItems := make([]*RSSItem, 0, len(articles))
	for _, a := range articles {
		rssItems = append(rssItems, g.convertToRSSItem(a))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         g.title,
			Link:          g.baseURL + "/",
			Description:   fmt.Sprintf("%s - summarized market news", g.title),
			AtomLink:      &AtomLink{Href: g.baseURL + "/rss", Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}

	return xml.Header + string(output), nil
}

func (g *Generator) convertToRSSItem(a domain.Article) *RSSItem {
	return &RSSItem{
		Title:       a.Title,
		Link:        a.Link,
		GUID:        a.Link,
		Description: a.Summary,
		Source:      a.Source,
		PubDate:     a.PublishedAt.Format(time.RFC1123Z),
		Categories:  a.Tags,
	}
}
