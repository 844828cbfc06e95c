package feed

import (
	"encoding/xml"
)

// RSS is the document served on /rss, an RSS 2.0 envelope with the atom namespace
// declared for the channel self link
type RSS struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *RSSChannel `xml:"channel"`
}

// RSSChannel describes the trendboard feed itself, items are stored articles newest first
type RSSChannel struct {
	XMLName       xml.Name   `xml:"channel"`
	Title         string     `xml:"title"`
	Link          string     `xml:"link"` // dashboard base url
	Description   string     `xml:"description"`
	AtomLink      *AtomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string     `xml:"lastBuildDate"` // RFC 1123Z
	Items         []*RSSItem `xml:"item"`
}

// AtomLink points readers back to the /rss address of this service
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// RSSItem is a stored article. Description carries the summary and the article
// link doubles as guid, links are unique in the store.
type RSSItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	Description string   `xml:"description"`
	Source      string   `xml:"source,omitempty"` // feed name the article came from
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category"` // article tags
}
