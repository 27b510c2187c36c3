package prospect

import (
	"math"
	"sort"
	"time"

	"github.com/leadmap/prospect-api/models"
)

// Named sort keys. Relevance is the default.
const (
	SortRelevance = "relevance"
	SortPriceHigh = "price_high"
	SortPriceLow  = "price_low"
	SortDateNew   = "date_new"
	SortDateOld   = "date_old"
	SortScoreHigh = "score_high"
)

// relevanceScoreGap is the AI-score difference beyond which relevance orders
// by score instead of recency.
const relevanceScoreGap = 10

// KnownSort reports whether key names a comparator.
func KnownSort(key string) bool {
	switch key {
	case SortRelevance, SortPriceHigh, SortPriceLow, SortDateNew, SortDateOld, SortScoreHigh:
		return true
	}
	return false
}

// SortListings orders records by the named comparator. Unknown keys fall
// back to relevance. The sort is stable and the input slice is sorted in
// place. Missing prices and scores compare as 0; missing dates as the zero
// time.
func SortListings(records []*models.Listing, key string) {
	var less func(a, b *models.Listing) bool
	switch key {
	case SortPriceHigh:
		less = func(a, b *models.Listing) bool { return deref(a.ListPrice) > deref(b.ListPrice) }
	case SortPriceLow:
		less = func(a, b *models.Listing) bool { return deref(a.ListPrice) < deref(b.ListPrice) }
	case SortDateNew:
		less = func(a, b *models.Listing) bool { return createdAt(a).After(createdAt(b)) }
	case SortDateOld:
		less = func(a, b *models.Listing) bool { return createdAt(a).Before(createdAt(b)) }
	case SortScoreHigh:
		less = func(a, b *models.Listing) bool { return deref(a.AIScore) > deref(b.AIScore) }
	default:
		less = RelevanceLess
	}
	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
}

// RelevanceLess is the blended default comparator: when the absolute AI-score
// difference exceeds the gap, higher score wins; otherwise newer creation
// date wins. The gap boundary itself (difference exactly equal) falls to
// recency.
func RelevanceLess(a, b *models.Listing) bool {
	sa, sb := deref(a.AIScore), deref(b.AIScore)
	if math.Abs(sa-sb) > relevanceScoreGap {
		return sa > sb
	}
	return createdAt(a).After(createdAt(b))
}

func createdAt(l *models.Listing) time.Time {
	if l.CreatedAt == nil {
		return time.Time{}
	}
	return *l.CreatedAt
}

// Paginate slices records for a 1-based page of the given size. Out-of-range
// pages yield an empty slice; a non-positive size returns everything.
func Paginate(records []*models.Listing, page, pageSize int) []*models.Listing {
	if pageSize <= 0 {
		return records
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []*models.Listing{}
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
