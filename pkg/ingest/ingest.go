// Package ingest runs the feed ingestion pipeline: fetch configured feeds, sanitize and
// deduplicate items, skip links already stored, summarize and store the rest.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"
	"github.com/AdwitiyaKhare/trendboard-ai/pkg/repository"
	"github.com/AdwitiyaKhare/trendboard-ai/pkg/sanitize"
	"github.com/AdwitiyaKhare/trendboard-ai/pkg/summarizer"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/summarizer.go -pkg mocks -skip-ensure -fmt goimports . Summarizer
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor
//go:generate moq -out mocks/locker.go -pkg mocks -skip-ensure -fmt goimports . Locker

// DefaultMaxContentChars limits item content before sanitizing
const DefaultMaxContentChars = 3000

// ErrStoreUnavailable is returned when the article store can't be reached before a run
var ErrStoreUnavailable = errors.New("article store unavailable")

// Fetcher loads and parses a single feed
type Fetcher interface {
	Fetch(ctx context.Context, src domain.FeedSource) (*domain.ParsedFeed, error)
}

// Summarizer produces a summary for article text, it never fails
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// Store persists articles
type Store interface {
	FindByLink(ctx context.Context, link string) (*domain.Article, error)
	Insert(ctx context.Context, article *domain.Article) (int64, error)
	Ping(ctx context.Context) error
}

// Extractor loads the readable text of an article page
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Locker guards a run against other processes
type Locker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// Params holds ingester dependencies, Extractor and Locker are optional
type Params struct {
	Fetcher         Fetcher
	Summarizer      Summarizer
	Store           Store
	Extractor       Extractor
	Locker          Locker
	Sources         []domain.FeedSource
	MaxContentChars int
}

// Status describes the current and the last finished run
type Status struct {
	Running    bool
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Result     domain.IngestResult
	Error      string
}

// Ingester runs ingestion. Concurrent Ingest calls share a single run.
type Ingester struct {
	fetcher         Fetcher
	summarizer      Summarizer
	store           Store
	extractor       Extractor
	locker          Locker
	sources         []domain.FeedSource
	maxContentChars int
	now             func() time.Time

	group singleflight.Group

	mu     sync.Mutex
	status Status
}

// New creates an ingester
func New(p Params) *Ingester {
	if p.MaxContentChars <= 0 {
		p.MaxContentChars = DefaultMaxContentChars
	}
	return &Ingester{
		fetcher:         p.Fetcher,
		summarizer:      p.Summarizer,
		store:           p.Store,
		extractor:       p.Extractor,
		locker:          p.Locker,
		sources:         p.Sources,
		maxContentChars: p.MaxContentChars,
		now:             time.Now,
	}
}

// Ingest runs the pipeline once. If a run is already in progress the call waits for it
// and returns its result.
func (i *Ingester) Ingest(ctx context.Context) (domain.IngestResult, error) {
	v, err, shared := i.group.Do("ingest", func() (any, error) {
		return i.run(ctx)
	})
	if shared {
		lgr.Printf("[DEBUG] ingestion request joined a running ingestion")
	}
	res, _ := v.(domain.IngestResult)
	return res, err
}

// Status returns the state of the current or the last run
func (i *Ingester) Status() Status {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

func (i *Ingester) run(ctx context.Context) (res domain.IngestResult, err error) {
	runID := uuid.NewString()
	started := i.now()
	i.setStatus(Status{Running: true, RunID: runID, StartedAt: started})
	defer func() {
		st := Status{RunID: runID, StartedAt: started, FinishedAt: i.now(), Result: res}
		if err != nil {
			st.Error = err.Error()
		}
		i.setStatus(st)
	}()

	lgr.Printf("[INFO] ingestion %s started, %d feeds", runID, len(i.sources))

	if i.locker != nil {
		release, lockErr := i.locker.Acquire(ctx)
		if lockErr != nil {
			return res, fmt.Errorf("acquire ingestion lock: %w", lockErr)
		}
		defer release()
	}

	if pingErr := i.store.Ping(ctx); pingErr != nil {
		return res, fmt.Errorf("%w: %w", ErrStoreUnavailable, pingErr)
	}

	items := i.collect(ctx)
	res.Fetched = len(items)
	unique := Dedupe(items)
	res.Unique = len(unique)

	for _, item := range unique {
		if ctx.Err() != nil {
			return res, fmt.Errorf("ingestion interrupted: %w", ctx.Err())
		}
		switch i.process(ctx, item) {
		case outcomeStored:
			res.Ingested++
		case outcomeSkipped:
			res.Skipped++
		case outcomeFailed:
			res.Failed++
		}
	}

	lgr.Printf("[INFO] ingestion %s completed in %v: fetched %d, unique %d, skipped %d, failed %d, ingested %d",
		runID, i.now().Sub(started).Round(time.Millisecond), res.Fetched, res.Unique, res.Skipped, res.Failed, res.Ingested)
	return res, nil
}

func (i *Ingester) setStatus(st Status) {
	i.mu.Lock()
	i.status = st
	i.mu.Unlock()
}

// collect fetches all sources in order, a failed feed contributes no items
func (i *Ingester) collect(ctx context.Context) []domain.RawItem {
	var items []domain.RawItem
	for _, src := range i.sources {
		feed, err := i.fetcher.Fetch(ctx, src)
		if err != nil {
			lgr.Printf("[WARN] failed to fetch feed %s: %v", src.URL, err)
			continue
		}
		feedItems := i.rawItems(src, feed)
		lgr.Printf("[DEBUG] feed %s returned %d items", src.URL, len(feedItems))
		items = append(items, feedItems...)
	}
	return items
}

// rawItems maps parsed feed items to sanitized raw items
func (i *Ingester) rawItems(src domain.FeedSource, feed *domain.ParsedFeed) []domain.RawItem {
	source := src.Name
	if source == "" {
		source = sanitize.Text(feed.Title)
	}
	if source == "" {
		source = src.URL
	}

	now := i.now()
	res := make([]domain.RawItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		published := it.Published
		if published.IsZero() {
			published = now
		}
		res = append(res, domain.RawItem{
			Source:      source,
			Title:       sanitize.Text(it.Title),
			Link:        it.Link,
			Content:     sanitize.Text(sanitize.Truncate(it.Content, i.maxContentChars)),
			PublishedAt: published,
		})
	}
	return res
}

type outcome int

const (
	outcomeStored outcome = iota
	outcomeSkipped
	outcomeFailed
)

// process stores a single item unless its link is already known.
// A panic in any dependency fails this item only.
func (i *Ingester) process(ctx context.Context, item domain.RawItem) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[WARN] skipping %s, panic: %v", item.Link, r)
			out = outcomeFailed
		}
	}()

	_, err := i.store.FindByLink(ctx, item.Link)
	switch {
	case err == nil:
		return outcomeSkipped
	case errors.Is(err, repository.ErrNotFound):
	default:
		lgr.Printf("[WARN] skipping %s, existence check failed: %v", item.Link, err)
		return outcomeFailed
	}

	// summaries come from an external service, sanitized the same way as feed text
	summary := sanitize.Text(i.summarizer.Summarize(ctx, i.summaryInput(ctx, item)))
	if summary == "" {
		summary = summarizer.NoSummary
	}

	article := &domain.Article{
		Title:       item.Title,
		Link:        item.Link,
		Summary:     summary,
		Source:      item.Source,
		PublishedAt: item.PublishedAt,
		Tags:        []string{},
		Importance:  domain.ImportanceNormal,
	}
	if article.Title == "" {
		article.Title = domain.DefaultTitle
	}

	if _, err := i.store.Insert(ctx, article); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			lgr.Printf("[DEBUG] %s was stored concurrently, skipped", item.Link)
			return outcomeSkipped
		}
		lgr.Printf("[WARN] skipping %s, insert failed: %v", item.Link, err)
		return outcomeFailed
	}

	lgr.Printf("[DEBUG] stored article %d %q from %s", article.ID, article.Title, article.Source)
	return outcomeStored
}

// summaryInput picks the text to summarize: feed content, extracted page text or the title
func (i *Ingester) summaryInput(ctx context.Context, item domain.RawItem) string {
	if item.Content != "" {
		return item.Content
	}
	if i.extractor != nil {
		text, err := i.extractor.Extract(ctx, item.Link)
		if err != nil {
			lgr.Printf("[DEBUG] extraction failed for %s: %v", item.Link, err)
		}
		if text = sanitize.Text(sanitize.Truncate(text, i.maxContentChars)); text != "" {
			return text
		}
	}
	return item.Title
}
