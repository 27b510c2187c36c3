package businessflow

import (
	"context"
	"math"
	"sort"

	"github.com/leadmap/prospect-api/app/dto"
	"github.com/leadmap/prospect-api/models"
	"github.com/leadmap/prospect-api/prospect"
)

// topScoredLimit bounds the highest-scored listings surfaced in insights.
const topScoredLimit = 5

// InsightsFlow aggregates the current category set in memory into a small
// analytics summary.
type InsightsFlow interface {
	GetInsights(ctx context.Context, userID string, req *dto.ListingsRequest) (*dto.InsightsResponse, error)
}

type InsightsFlowImpl struct {
	dashboard          DashboardFlow
	highValueThreshold float64
}

func NewInsightsFlow(dashboard DashboardFlow, highValueThreshold float64) InsightsFlow {
	if highValueThreshold <= 0 {
		highValueThreshold = prospect.DefaultHighValueThreshold
	}
	return &InsightsFlowImpl{dashboard: dashboard, highValueThreshold: highValueThreshold}
}

func (f *InsightsFlowImpl) GetInsights(ctx context.Context, userID string, req *dto.ListingsRequest) (*dto.InsightsResponse, error) {
	records, _, err := f.dashboard.FilteredListings(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return BuildInsights(records, f.highValueThreshold), nil
}

// BuildInsights computes the summary in a single pass plus one sort for the
// top-scored slice.
func BuildInsights(records []*models.Listing, highValueThreshold float64) *dto.InsightsResponse {
	report := &dto.InsightsResponse{
		ListingsByCity: make(map[string]int),
		TopScored:      []*models.Listing{},
	}
	if len(records) == 0 {
		return report
	}
	report.TotalListings = len(records)

	var priced, scored []*models.Listing
	var priceTotal float64
	for _, l := range records {
		if l.ListPrice != nil && *l.ListPrice > 0 {
			priced = append(priced, l)
			priceTotal += *l.ListPrice
			if report.MinPrice == 0 || *l.ListPrice < report.MinPrice {
				report.MinPrice = *l.ListPrice
			}
			if *l.ListPrice > report.MaxPrice {
				report.MaxPrice = *l.ListPrice
			}
		}
		if l.AIScore != nil && *l.AIScore > 0 {
			scored = append(scored, l)
		}
		if l.City != nil && *l.City != "" {
			report.ListingsByCity[*l.City]++
		}
		if prospect.IsEnriched(l) {
			report.EnrichedCount++
		}
		if prospect.HasPriceDrop(l) {
			report.PriceDropCount++
		}
		if prospect.IsHighValue(l, highValueThreshold) {
			report.HighValueCount++
		}
	}

	if len(priced) > 0 {
		report.AveragePrice = round2(priceTotal / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}
	report.EnrichmentCoverage = round2(float64(report.EnrichedCount) / float64(report.TotalListings) * 100)

	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].AIScore > *scored[j].AIScore
	})
	if len(scored) > topScoredLimit {
		scored = scored[:topScoredLimit]
	}
	report.TopScored = scored

	return report
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
