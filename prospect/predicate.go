package prospect

import (
	"strconv"
	"strings"
	"time"

	"github.com/leadmap/prospect-api/models"
)

// DefaultHighValueThreshold is the list-price floor for the high_value meta
// filter when no override is configured.
const DefaultHighValueThreshold = 500_000

// DefaultNetNewWindowDays bounds recency for net-new and new_listings.
const DefaultNetNewWindowDays = 30

// Engine applies the composable predicate chain to an in-memory candidate
// list. All keys AND together; a multi-value key ORs internally.
type Engine struct {
	HighValueThreshold float64
	Now                func() time.Time
}

// NewEngine creates a predicate engine. A non-positive threshold falls back
// to the default.
func NewEngine(highValueThreshold float64) *Engine {
	if highValueThreshold <= 0 {
		highValueThreshold = DefaultHighValueThreshold
	}
	return &Engine{HighValueThreshold: highValueThreshold, Now: time.Now}
}

// Apply filters records in a single left-to-right pass. The input slice is
// not modified.
func (e *Engine) Apply(records []*models.Listing, m FilterMap) []*models.Listing {
	if len(m) == 0 {
		return records
	}
	out := make([]*models.Listing, 0, len(records))
	for _, l := range records {
		if e.matches(l, m) {
			out = append(out, l)
		}
	}
	return out
}

func (e *Engine) matches(l *models.Listing, m FilterMap) bool {
	for key, v := range m {
		if !e.matchKey(l, key, v) {
			return false
		}
	}
	return true
}

func (e *Engine) matchKey(l *models.Listing, key string, v Value) bool {
	switch key {
	case KeyStatus:
		return anyOf(v, func(s string) bool { return MatchStatus(l, s) })
	case KeyPrice:
		return matchRange(v, deref(l.ListPrice))
	case KeyBeds:
		return anyOf(v, func(s string) bool { return MatchBucket(deref(l.Beds), s) })
	case KeyBaths:
		return anyOf(v, func(s string) bool { return MatchBucket(deref(l.FullBaths), s) })
	case KeySqft:
		return matchRange(v, deref(l.Sqft))
	case KeyYearBuilt:
		yb := 0.0
		if l.YearBuilt != nil {
			yb = float64(*l.YearBuilt)
		}
		return matchRange(v, yb)
	case KeyScore:
		return matchRange(v, deref(l.AIScore))
	case KeyCity:
		return anyOf(v, func(s string) bool { return equalsFold(l.City, s) })
	case KeyState:
		return anyOf(v, func(s string) bool { return equalsFold(l.State, s) })
	case KeyZip:
		return anyOf(v, func(s string) bool { return equalsFold(l.ZipCode, s) })
	case KeyKeyword:
		return MatchKeyword(l, v.Str)
	case KeyEnriched:
		return IsEnriched(l)
	case KeyPriceDrop:
		return HasPriceDrop(l)
	case KeyHighValue:
		return IsHighValue(l, e.HighValueThreshold)
	case KeyNewDays:
		days, err := strconv.Atoi(v.Str)
		if err != nil || days <= 0 {
			days = DefaultNetNewWindowDays
		}
		return IsRecent(l, days, e.Now())
	default:
		// Unknown keys never exclude a record.
		return true
	}
}

// MatchStatus matches by case-insensitive substring against the status
// vocabulary; "active" checks the boolean active flag instead.
func MatchStatus(l *models.Listing, want string) bool {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "active" {
		return l.Active != nil && *l.Active
	}
	if l.Status == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*l.Status), want)
}

// MatchBucket matches an exact numeric bucket ("3") or an open-ended top
// bucket ("5+").
func MatchBucket(have float64, bucket string) bool {
	bucket = strings.TrimSpace(bucket)
	if open, ok := strings.CutSuffix(bucket, "+"); ok {
		n, err := strconv.ParseFloat(open, 64)
		if err != nil {
			return false
		}
		return have >= n
	}
	n, err := strconv.ParseFloat(bucket, 64)
	if err != nil {
		return false
	}
	return have == n
}

// MatchKeyword does a case-insensitive contains over the address components,
// description, and agent name.
func MatchKeyword(l *models.Listing, keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return true
	}
	for _, f := range []*string{l.Street, l.Unit, l.City, l.State, l.ZipCode, l.Description, l.AgentName} {
		if f != nil && strings.Contains(strings.ToLower(*f), keyword) {
			return true
		}
	}
	return false
}

// PriceDropPercent computes (list_price_min - list_price) / list_price_min *
// 100. The second return is false when either field is absent or the
// reference price is zero.
func PriceDropPercent(l *models.Listing) (float64, bool) {
	if l.ListPrice == nil || l.ListPriceMin == nil || *l.ListPriceMin == 0 {
		return 0, false
	}
	return (*l.ListPriceMin - *l.ListPrice) / *l.ListPriceMin * 100, true
}

// HasPriceDrop reports whether the listing dropped below its reference price.
func HasPriceDrop(l *models.Listing) bool {
	pct, ok := PriceDropPercent(l)
	return ok && pct > 0
}

// IsHighValue reports whether the list price meets the threshold.
func IsHighValue(l *models.Listing, threshold float64) bool {
	return l.ListPrice != nil && *l.ListPrice >= threshold
}

// IsEnriched reports whether any enrichment signal is present: an agent
// contact field, a secondary phone, an AI score, or last-sale data.
func IsEnriched(l *models.Listing) bool {
	for _, f := range []*string{l.AgentName, l.AgentEmail, l.AgentPhone, l.Phone2, l.Phone3, l.Phone4, l.Phone5} {
		if f != nil && strings.TrimSpace(*f) != "" {
			return true
		}
	}
	if l.AIScore != nil {
		return true
	}
	return l.LastSalePrice != nil || l.LastSaleDate != nil
}

// IsRecent reports whether max(created_at, updated_at) falls within the
// window. Records lacking both timestamps cannot prove recency and are
// excluded.
func IsRecent(l *models.Listing, windowDays int, now time.Time) bool {
	ts := LatestActivity(l)
	if ts == nil {
		return false
	}
	return now.Sub(*ts) <= time.Duration(windowDays)*24*time.Hour
}

// LatestActivity returns the later of created_at and updated_at, or nil when
// both are absent.
func LatestActivity(l *models.Listing) *time.Time {
	switch {
	case l.CreatedAt == nil:
		return l.UpdatedAt
	case l.UpdatedAt == nil:
		return l.CreatedAt
	case l.UpdatedAt.After(*l.CreatedAt):
		return l.UpdatedAt
	default:
		return l.CreatedAt
	}
}

func anyOf(v Value, match func(string) bool) bool {
	if v.Str != "" {
		return match(v.Str)
	}
	for _, s := range v.List {
		if match(s) {
			return true
		}
	}
	return false
}

func matchRange(v Value, have float64) bool {
	if v.Range == nil {
		return true
	}
	return v.Range.Contains(have)
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func equalsFold(have *string, want string) bool {
	return have != nil && strings.EqualFold(strings.TrimSpace(*have), strings.TrimSpace(want))
}
