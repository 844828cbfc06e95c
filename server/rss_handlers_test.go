package server

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"
	"github.com/AdwitiyaKhare/trendboard-ai/server/mocks"
)

func TestServer_rssHandler(t *testing.T) {
	now := time.Now()
	articles := &mocks.ArticleStoreMock{
		ListFunc: func(ctx context.Context) ([]domain.Article, error) {
			return []domain.Article{
				{ID: 2, Title: "Fed holds rates", Link: "https://example.com/fed", Summary: "Rates unchanged.",
					Source: "Example Finance", PublishedAt: now, Tags: []string{"macro"}},
				{ID: 1, Title: "Oil & gas", Link: "https://example.com/oil", Summary: "Prices <up>.",
					Source: "Energy Wire", PublishedAt: now.Add(-time.Hour)},
			}, nil
		},
	}
	srv := testServer(t, "", nil, articles)

	req := httptest.NewRequest(http.MethodGet, "/rss", http.NoBody)
	w := httptest.NewRecorder()
	srv.rssHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, body, `<title>Trendboard</title>`)
	assert.Contains(t, body, `href="https://trendboard.example.com/rss"`)
	assert.Contains(t, body, `<title>Oil &amp; gas</title>`)
	assert.Contains(t, body, `<category>macro</category>`)

	var doc struct {
		Channel struct {
			Items []struct {
				Title string `xml:"title"`
				Link  string `xml:"link"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Channel.Items, 2)
	assert.Equal(t, "Fed holds rates", doc.Channel.Items[0].Title)
	assert.Equal(t, "https://example.com/oil", doc.Channel.Items[1].Link)
}

func TestServer_rssHandler_Empty(t *testing.T) {
	articles := &mocks.ArticleStoreMock{
		ListFunc: func(ctx context.Context) ([]domain.Article, error) { return []domain.Article{}, nil },
	}
	srv := testServer(t, "", nil, articles)

	w := httptest.NewRecorder()
	srv.rssHandler(w, httptest.NewRequest(http.MethodGet, "/rss", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<channel>")
	assert.NotContains(t, w.Body.String(), "<item>")
}

func TestServer_rssHandler_DatabaseError(t *testing.T) {
	articles := &mocks.ArticleStoreMock{
		ListFunc: func(ctx context.Context) ([]domain.Article, error) {
			return nil, errors.New("database error")
		},
	}
	srv := testServer(t, "", nil, articles)

	w := httptest.NewRecorder()
	srv.rssHandler(w, httptest.NewRequest(http.MethodGet, "/rss", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate RSS feed")
}
