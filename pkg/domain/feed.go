package domain

import "time"

// FeedSource is a configured feed address with an optional display name
type FeedSource struct {
	URL  string
	Name string // empty means "use the parsed feed title"
}

// ParsedFeed represents a fetched and parsed RSS/Atom feed
type ParsedFeed struct {
	Title string
	Items []ParsedItem
}

// ParsedItem represents a single entry of a parsed feed, before any sanitizing
type ParsedItem struct {
	Title     string
	Link      string
	Content   string // first non-empty content-like field, see feed.contentFields
	Published time.Time // zero if the feed carries no usable date
}
