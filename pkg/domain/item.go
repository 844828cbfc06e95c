package domain

import "time"

// RawItem is a sanitized feed item collected during a single ingestion run
type RawItem struct {
	Source      string
	Title       string
	Link        string
	Content     string
	PublishedAt time.Time
}

// Importance of a stored article
type Importance string

// ImportanceNormal is the only importance assigned by ingestion
const ImportanceNormal Importance = "normal"

// DefaultTitle is used for articles without a title
const DefaultTitle = "Untitled"

// Article is a persisted, summarized feed item
type Article struct {
	ID          int64
	Title       string
	Link        string
	Summary     string
	Source      string
	PublishedAt time.Time
	CreatedAt   time.Time
	Tags        []string
	Importance  Importance
}

// IngestResult reports the outcome of one ingestion run
type IngestResult struct {
	Fetched  int // raw items collected from all feeds
	Unique   int // items left after dedup
	Skipped  int // items already stored
	Failed   int // items dropped because of per-item errors
	Ingested int // newly stored articles
}
