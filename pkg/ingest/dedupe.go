package ingest

import "github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"

// Dedupe drops items sharing a link with an earlier item, keeping order.
// Links are compared as is; items without a link are dropped.
func Dedupe(items []domain.RawItem) []domain.RawItem {
	seen := make(map[string]struct{}, len(items))
	res := make([]domain.RawItem, 0, len(items))
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		if _, ok := seen[item.Link]; ok {
			continue
		}
		seen[item.Link] = struct{}{}
		res = append(res, item)
	}
	return res
}
