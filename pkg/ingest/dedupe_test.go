package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.RawItem
		want  []domain.RawItem
	}{
		{name: "nil input", items: nil, want: []domain.RawItem{}},
		{
			name: "first occurrence wins",
			items: []domain.RawItem{
				{Link: "a", Title: "T1"},
				{Link: "a", Title: "T2"},
				{Link: "b", Title: "T3"},
			},
			want: []domain.RawItem{{Link: "a", Title: "T1"}, {Link: "b", Title: "T3"}},
		},
		{
			name: "order preserved",
			items: []domain.RawItem{
				{Link: "c"}, {Link: "a"}, {Link: "c"}, {Link: "b"}, {Link: "a"},
			},
			want: []domain.RawItem{{Link: "c"}, {Link: "a"}, {Link: "b"}},
		},
		{
			name: "links are not normalized",
			items: []domain.RawItem{
				{Link: "https://example.com/a"}, {Link: "https://example.com/a/"}, {Link: "https://EXAMPLE.com/a"},
			},
			want: []domain.RawItem{
				{Link: "https://example.com/a"}, {Link: "https://example.com/a/"}, {Link: "https://EXAMPLE.com/a"},
			},
		},
		{
			name:  "linkless items dropped",
			items: []domain.RawItem{{Title: "no link"}, {Link: "a"}, {Title: "another"}},
			want:  []domain.RawItem{{Link: "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dedupe(tt.items))
		})
	}
}

func TestDedupe_DoesNotModifyInput(t *testing.T) {
	items := []domain.RawItem{{Link: "a", Title: "1"}, {Link: "a", Title: "2"}}
	_ = Dedupe(items)
	assert.Equal(t, []domain.RawItem{{Link: "a", Title: "1"}, {Link: "a", Title: "2"}}, items)
}
