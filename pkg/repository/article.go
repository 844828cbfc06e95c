package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"
)

// ErrNotFound is returned when no article matches the lookup
var ErrNotFound = errors.New("article not found")

// ErrDuplicate is returned by Insert when an article with the same link already exists
var ErrDuplicate = errors.New("article already exists")

// ArticleRepository handles article persistence
type ArticleRepository struct {
	db *sqlx.DB
}

// articleSQL represents an article for SQL operations
type articleSQL struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Link        string    `db:"link"`
	Summary     string    `db:"summary"`
	Source      string    `db:"source"`
	PublishedAt time.Time `db:"published_at"`
	CreatedAt   time.Time `db:"created_at"`
	Tags        tagsSQL   `db:"tags"`
	Importance  string    `db:"importance"`
}

// tagsSQL is a JSON array of tag strings for SQL operations
type tagsSQL []string

// Value implements driver.Valuer for database storage
func (t tagsSQL) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (t *tagsSQL) Scan(value any) error {
	if value == nil {
		*t = tagsSQL{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		*t = tagsSQL{}
		return nil
	}

	if len(data) == 0 {
		*t = tagsSQL{}
		return nil
	}
	return json.Unmarshal(data, t)
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// FindByLink returns the article stored under link or ErrNotFound
func (r *ArticleRepository) FindByLink(ctx context.Context, link string) (*domain.Article, error) {
	var rec articleSQL
	err := r.db.GetContext(ctx, &rec, r.db.Rebind("SELECT * FROM articles WHERE link = ? LIMIT 1"), link)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find article by link: %w", err)
	}
	return rec.toDomain(), nil
}

// Insert stores a new article and fills its ID and CreatedAt.
// Returns ErrDuplicate if the link is already stored.
func (r *ArticleRepository) Insert(ctx context.Context, article *domain.Article) (int64, error) {
	rec := fromDomain(article)

	query := r.db.Rebind(`
		INSERT INTO articles (title, link, summary, source, published_at, tags, importance)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (link) DO NOTHING
		RETURNING id
	`)

	var id int64
	var opErr error
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		err := r.db.QueryRowxContext(ctx, query, rec.Title, rec.Link, rec.Summary, rec.Source,
			rec.PublishedAt, rec.Tags, rec.Importance).Scan(&id)
		if isLockError(err) {
			return err // retry
		}
		opErr = err
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("insert article: %w", err)
	}
	if errors.Is(opErr, sql.ErrNoRows) {
		return 0, ErrDuplicate
	}
	if opErr != nil {
		return 0, fmt.Errorf("insert article: %w", opErr)
	}

	var createdAt time.Time
	if err := r.db.GetContext(ctx, &createdAt, r.db.Rebind("SELECT created_at FROM articles WHERE id = ?"), id); err != nil {
		return 0, fmt.Errorf("get created_at for article %d: %w", id, err)
	}

	article.ID = id
	article.CreatedAt = createdAt.UTC()
	return id, nil
}

// List returns all articles, newest publication first
func (r *ArticleRepository) List(ctx context.Context) ([]domain.Article, error) {
	var recs []articleSQL
	if err := r.db.SelectContext(ctx, &recs, "SELECT * FROM articles ORDER BY published_at DESC, id DESC"); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	res := make([]domain.Article, 0, len(recs))
	for i := range recs {
		res = append(res, *recs[i].toDomain())
	}
	return res, nil
}

// Count returns the number of stored articles
func (r *ArticleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM articles"); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// Ping verifies the database connection
func (r *ArticleRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection
func (r *ArticleRepository) Close() error {
	return r.db.Close()
}

func fromDomain(a *domain.Article) articleSQL {
	title := a.Title
	if title == "" {
		title = domain.DefaultTitle
	}
	importance := string(a.Importance)
	if importance == "" {
		importance = string(domain.ImportanceNormal)
	}
	published := a.PublishedAt
	if published.IsZero() {
		published = time.Now()
	}
	return articleSQL{
		Title:       title,
		Link:        a.Link,
		Summary:     a.Summary,
		Source:      a.Source,
		PublishedAt: published.UTC(),
		Tags:        tagsSQL(a.Tags),
		Importance:  importance,
	}
}

func (a *articleSQL) toDomain() *domain.Article {
	tags := []string(a.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &domain.Article{
		ID:          a.ID,
		Title:       a.Title,
		Link:        a.Link,
		Summary:     a.Summary,
		Source:      a.Source,
		PublishedAt: a.PublishedAt.UTC(),
		CreatedAt:   a.CreatedAt.UTC(),
		Tags:        tags,
		Importance:  domain.Importance(a.Importance),
	}
}
