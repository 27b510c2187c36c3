package prospect

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateEncode(t *testing.T) {
	t.Run("DefaultStateSerializesToEmptyQuery", func(t *testing.T) {
		assert.Equal(t, "", NewState().Encode().Encode())
	})

	t.Run("NonDefaultsOnly", func(t *testing.T) {
		s := NewState()
		s.Filter.Set(CategoryExpired, true)
		s.Filter.Set(CategoryHighValue, true)
		s.Filter.Set(CategoryPriceDrop, true)
		s.Search = "austin"
		s.Sort = SortPriceHigh
		s.Page = 3
		s.Apollo.SetString(KeyStatus, "active")

		q := s.Encode()
		assert.Equal(t, "expired", q.Get(ParamFilter))
		assert.Equal(t, "high_value,price_drop", q.Get(ParamMeta))
		assert.Equal(t, "austin", q.Get(ParamSearch))
		assert.Equal(t, "price_high", q.Get(ParamSort))
		assert.Equal(t, "3", q.Get(ParamPage))
		assert.NotEmpty(t, q.Get(ParamApollo))
	})

	t.Run("PageOneAndRelevanceAreOmitted", func(t *testing.T) {
		s := NewState()
		s.Page = 1
		s.Sort = SortRelevance
		q := s.Encode()
		assert.Empty(t, q.Get(ParamPage))
		assert.Empty(t, q.Get(ParamSort))
	})
}

func TestDecodeState(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		s := NewState()
		s.Filter.Set(CategoryProbate, true)
		s.Filter.Set(CategoryNewListings, true)
		s.Search = "main st"
		s.Sort = SortDateOld
		s.Page = 2
		s.Apollo.SetRange(KeyPrice, fp(100_000), fp(400_000))

		decoded := DecodeState(s.Encode())
		assert.Equal(t, CategoryProbate, decoded.Filter.Primary())
		assert.True(t, decoded.Filter.Has(CategoryNewListings))
		assert.Equal(t, "main st", decoded.Search)
		assert.Equal(t, SortDateOld, decoded.Sort)
		assert.Equal(t, 2, decoded.Page)
		require.NotNil(t, decoded.Apollo[KeyPrice].Range)
		assert.Equal(t, 400_000.0, *decoded.Apollo[KeyPrice].Range.Max)
	})

	t.Run("UnknownTokensAreDropped", func(t *testing.T) {
		q := url.Values{}
		q.Set(ParamFilter, "mystery")
		q.Set(ParamMeta, "high_value,junk, price_drop")

		s := DecodeState(q)
		assert.Equal(t, CategoryAll, s.Filter.Primary())
		assert.ElementsMatch(t, []Category{CategoryHighValue, CategoryPriceDrop}, s.Filter.Meta())
	})

	t.Run("MetaTokenInFilterSlotIsIgnored", func(t *testing.T) {
		q := url.Values{}
		q.Set(ParamFilter, "high_value")
		s := DecodeState(q)
		assert.Equal(t, CategoryAll, s.Filter.Primary())
		assert.False(t, s.Filter.Has(CategoryHighValue))
	})

	t.Run("BadPageFallsBackToOne", func(t *testing.T) {
		for _, raw := range []string{"abc", "-2", "0", "1.5"} {
			q := url.Values{}
			q.Set(ParamPage, raw)
			assert.Equal(t, 1, DecodeState(q).Page, "page=%s", raw)
		}
	})

	t.Run("UnknownSortFallsBackToRelevance", func(t *testing.T) {
		q := url.Values{}
		q.Set(ParamSort, "sideways")
		assert.Equal(t, SortRelevance, DecodeState(q).Sort)
	})

	t.Run("MalformedApolloFallsBackToEmptyMap", func(t *testing.T) {
		q := url.Values{}
		q.Set(ParamApollo, `{"price":`)
		s := DecodeState(q)
		assert.Equal(t, 0, s.Apollo.ActiveCount())
	})
}

func TestStateDiffers(t *testing.T) {
	s := NewState()
	assert.False(t, s.Differs(url.Values{}))

	s.Page = 2
	assert.True(t, s.Differs(url.Values{}))

	current := url.Values{}
	current.Set(ParamPage, "2")
	assert.False(t, s.Differs(current))

	current.Set("utm_source", "newsletter")
	assert.False(t, s.Differs(current))
}
