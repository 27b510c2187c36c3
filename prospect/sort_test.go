package prospect

import (
	"testing"
	"time"

	"github.com/leadmap/prospect-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(records []*models.Listing) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = *r.ListingID
	}
	return out
}

func TestSortListings(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	build := func() []*models.Listing {
		cheapOld := listing("cheap_old", base.AddDate(0, 0, -30))
		cheapOld.ListPrice = fp(100_000)
		cheapOld.AIScore = fp(20)

		midNew := listing("mid_new", base.AddDate(0, 0, -1))
		midNew.ListPrice = fp(300_000)
		midNew.AIScore = fp(50)

		richMid := listing("rich_mid", base.AddDate(0, 0, -10))
		richMid.ListPrice = fp(900_000)
		richMid.AIScore = fp(90)

		return []*models.Listing{cheapOld, midNew, richMid}
	}

	t.Run("PriceHigh", func(t *testing.T) {
		records := build()
		SortListings(records, SortPriceHigh)
		assert.Equal(t, []string{"rich_mid", "mid_new", "cheap_old"}, ids(records))
	})

	t.Run("PriceLow", func(t *testing.T) {
		records := build()
		SortListings(records, SortPriceLow)
		assert.Equal(t, []string{"cheap_old", "mid_new", "rich_mid"}, ids(records))
	})

	t.Run("DateNew", func(t *testing.T) {
		records := build()
		SortListings(records, SortDateNew)
		assert.Equal(t, []string{"mid_new", "rich_mid", "cheap_old"}, ids(records))
	})

	t.Run("DateOld", func(t *testing.T) {
		records := build()
		SortListings(records, SortDateOld)
		assert.Equal(t, []string{"cheap_old", "rich_mid", "mid_new"}, ids(records))
	})

	t.Run("ScoreHigh", func(t *testing.T) {
		records := build()
		SortListings(records, SortScoreHigh)
		assert.Equal(t, []string{"rich_mid", "mid_new", "cheap_old"}, ids(records))
	})

	t.Run("UnknownKeyFallsBackToRelevance", func(t *testing.T) {
		records := build()
		SortListings(records, "sideways")
		assert.Equal(t, []string{"rich_mid", "mid_new", "cheap_old"}, ids(records))
	})

	t.Run("MissingPricesCompareAsZero", func(t *testing.T) {
		priced := listing("priced", base)
		priced.ListPrice = fp(1)
		bare := listing("bare", base)

		records := []*models.Listing{bare, priced}
		SortListings(records, SortPriceHigh)
		assert.Equal(t, []string{"priced", "bare"}, ids(records))
	})
}

func TestRelevanceLess(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("ScoreWinsBeyondTheGap", func(t *testing.T) {
		newerLow := listing("a", base)
		newerLow.AIScore = fp(40)
		olderHigh := listing("b", base.AddDate(0, 0, -10))
		olderHigh.AIScore = fp(51)

		assert.True(t, RelevanceLess(olderHigh, newerLow))
		assert.False(t, RelevanceLess(newerLow, olderHigh))
	})

	t.Run("GapOfExactlyTenFallsToRecency", func(t *testing.T) {
		newerLow := listing("a", base)
		newerLow.AIScore = fp(40)
		olderHigh := listing("b", base.AddDate(0, 0, -10))
		olderHigh.AIScore = fp(50)

		assert.True(t, RelevanceLess(newerLow, olderHigh))
		assert.False(t, RelevanceLess(olderHigh, newerLow))
	})

	t.Run("MissingScoreIsZero", func(t *testing.T) {
		scored := listing("a", base.AddDate(0, 0, -10))
		scored.AIScore = fp(11)
		unscored := listing("b", base)

		assert.True(t, RelevanceLess(scored, unscored))
	})
}

func TestPaginate(t *testing.T) {
	records := []*models.Listing{
		listing("a", time.Time{}),
		listing("b", time.Time{}),
		listing("c", time.Time{}),
		listing("d", time.Time{}),
		listing("e", time.Time{}),
	}

	t.Run("MiddlePage", func(t *testing.T) {
		page := Paginate(records, 2, 2)
		require.Len(t, page, 2)
		assert.Equal(t, []string{"c", "d"}, ids(page))
	})

	t.Run("LastPartialPage", func(t *testing.T) {
		page := Paginate(records, 3, 2)
		assert.Equal(t, []string{"e"}, ids(page))
	})

	t.Run("OutOfRangePageIsEmpty", func(t *testing.T) {
		assert.Empty(t, Paginate(records, 9, 2))
	})

	t.Run("NonPositiveSizeReturnsEverything", func(t *testing.T) {
		assert.Len(t, Paginate(records, 1, 0), 5)
		assert.Len(t, Paginate(records, 3, -1), 5)
	})

	t.Run("PageBelowOneClampsToFirst", func(t *testing.T) {
		page := Paginate(records, 0, 2)
		assert.Equal(t, []string{"a", "b"}, ids(page))
	})
}
