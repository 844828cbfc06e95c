package server

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"
)

// isoMillis is the ISO-8601 layout used for article timestamps
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// livenessText is returned by the root route
const livenessText = "Trendboard backend is running"

// articleResponse is the JSON view of an article
type articleResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Summary     string   `json:"summary"`
	Source      string   `json:"source"`
	PublishedAt string   `json:"publishedAt"`
	CreatedAt   string   `json:"createdAt"`
	Tags        []string `json:"tags"`
	Importance  string   `json:"importance"`
}

// rootHandler reports that the service is alive
func (s *Server) rootHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(livenessText))
}

// fetchAndSummarizeHandler runs ingestion and reports the number of new articles.
// The run is detached from the request, a client going away doesn't stop it.
func (s *Server) fetchAndSummarizeHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.ingester.Ingest(context.WithoutCancel(r.Context()))
	if err != nil {
		log.Printf("[ERROR] ingestion failed: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]any{
		"success":  true,
		"ingested": res.Ingested,
	})
}

// articlesHandler lists stored articles, newest first
func (s *Server) articlesHandler(w http.ResponseWriter, r *http.Request) {
	articles, err := s.articles.List(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to list articles: %v", err)
		renderJSON(w, r, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch articles"})
		return
	}

	now := time.Now()
	res := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		res = append(res, toArticleResponse(a, now))
	}
	renderJSON(w, r, http.StatusOK, res)
}

// statusHandler returns server status and the state of the last ingestion
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	st := s.ingester.Status()
	ingestion := map[string]any{
		"running":  st.Running,
		"run_id":   st.RunID,
		"fetched":  st.Result.Fetched,
		"unique":   st.Result.Unique,
		"skipped":  st.Result.Skipped,
		"failed":   st.Result.Failed,
		"ingested": st.Result.Ingested,
	}
	if !st.StartedAt.IsZero() {
		ingestion["started_at"] = st.StartedAt.UTC().Format(isoMillis)
	}
	if !st.FinishedAt.IsZero() {
		ingestion["finished_at"] = st.FinishedAt.UTC().Format(isoMillis)
	}
	if st.Error != "" {
		ingestion["error"] = st.Error
	}

	renderJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   s.version,
		"time":      time.Now().UTC(),
		"ingestion": ingestion,
	})
}

func toArticleResponse(a domain.Article, now time.Time) articleResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	importance := string(a.Importance)
	if importance == "" {
		importance = string(domain.ImportanceNormal)
	}
	return articleResponse{
		ID:          strconv.FormatInt(a.ID, 10),
		Title:       a.Title,
		Link:        a.Link,
		Summary:     a.Summary,
		Source:      a.Source,
		PublishedAt: isoTime(a.PublishedAt, now),
		CreatedAt:   isoTime(a.CreatedAt, now),
		Tags:        tags,
		Importance:  importance,
	}
}

// isoTime formats t in UTC, a zero time renders as now
func isoTime(t, now time.Time) string {
	if t.IsZero() {
		t = now
	}
	return t.UTC().Format(isoMillis)
}
