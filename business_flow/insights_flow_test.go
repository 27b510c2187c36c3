package businessflow

import (
	"context"
	"testing"

	"github.com/leadmap/prospect-api/app/dto"
	"github.com/leadmap/prospect-api/models"
	"github.com/leadmap/prospect-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInsights(t *testing.T) {
	t.Run("EmptySet", func(t *testing.T) {
		report := BuildInsights(nil, 500_000)
		assert.Equal(t, 0, report.TotalListings)
		assert.Empty(t, report.TopScored)
		assert.Empty(t, report.ListingsByCity)
	})

	t.Run("PriceStatsIgnoreMissingAndZeroPrices", func(t *testing.T) {
		records := []*models.Listing{
			{ListPrice: fp(100_000)},
			{ListPrice: fp(300_000)},
			{ListPrice: fp(0)},
			{},
		}
		report := BuildInsights(records, 500_000)
		assert.Equal(t, 4, report.TotalListings)
		assert.Equal(t, 100_000.0, report.MinPrice)
		assert.Equal(t, 300_000.0, report.MaxPrice)
		assert.Equal(t, 200_000.0, report.AveragePrice)
	})

	t.Run("CityBreakdown", func(t *testing.T) {
		records := []*models.Listing{
			{City: strp("Austin")},
			{City: strp("Austin")},
			{City: strp("Dallas")},
			{City: strp("")},
		}
		report := BuildInsights(records, 500_000)
		assert.Equal(t, map[string]int{"Austin": 2, "Dallas": 1}, report.ListingsByCity)
	})

	t.Run("TopScoredKeepsFiveHighest", func(t *testing.T) {
		records := make([]*models.Listing, 0, 7)
		for _, score := range []float64{10, 90, 30, 70, 50, 80, 20} {
			records = append(records, &models.Listing{AIScore: fp(score)})
		}
		report := BuildInsights(records, 500_000)
		require.Len(t, report.TopScored, 5)
		assert.Equal(t, 90.0, *report.TopScored[0].AIScore)
		assert.Equal(t, 30.0, *report.TopScored[4].AIScore)
	})

	t.Run("SignalCounts", func(t *testing.T) {
		records := []*models.Listing{
			{AgentEmail: strp("a@b.com"), ListPrice: fp(600_000)},
			{ListPrice: fp(90_000), ListPriceMin: fp(100_000)},
			{},
		}
		report := BuildInsights(records, 500_000)
		assert.Equal(t, 1, report.EnrichedCount)
		assert.Equal(t, 1, report.PriceDropCount)
		assert.Equal(t, 1, report.HighValueCount)
		assert.InDelta(t, 33.33, report.EnrichmentCoverage, 0.01)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.25, round2(1.25))
	assert.Equal(t, -1.25, round2(-1.25))
	assert.InDelta(t, 33.33, round2(100.0/3), 0.001)
}

func TestGetInsights(t *testing.T) {
	now := utils.UTCNow()
	fx := newDashboardFixture()

	scored := row("scored", now.AddDate(0, 0, -1))
	scored.AIScore = fp(88)
	scored.ListPrice = fp(750_000)
	plain := row("plain", now.AddDate(0, 0, -2))
	fx.listings.tables["listings"] = []*models.Listing{scored, plain}

	flow := NewInsightsFlow(fx.flow, 500_000)
	report, err := flow.GetInsights(context.Background(), testUserID, &dto.ListingsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalListings)
	assert.Equal(t, 1, report.HighValueCount)
	require.Len(t, report.TopScored, 1)
	assert.Equal(t, "scored", *report.TopScored[0].ListingID)
}
