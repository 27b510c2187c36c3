package prospect

import (
	"net/url"
	"strconv"
	"strings"
)

// URL query parameter names. All parameters are optional and omitted when
// equal to their defaults, so a default dashboard serializes to an empty
// query.
const (
	ParamFilter = "filter"
	ParamMeta   = "meta"
	ParamSearch = "search"
	ParamSort   = "sort"
	ParamPage   = "page"
	ParamApollo = "apollo"
)

// State is the shareable dashboard state carried in the URL query: the
// active category and meta filters, free-text search, sort key, page, and
// the predicate filter map.
type State struct {
	Filter FilterSet
	Search string
	Sort   string
	Page   int
	Apollo FilterMap
}

// NewState returns the default state: category all, relevance sort, page 1,
// no filters.
func NewState() State {
	return State{
		Filter: NewFilterSet(),
		Sort:   SortRelevance,
		Page:   1,
		Apollo: make(FilterMap),
	}
}

// Encode serializes the state, omitting every parameter that equals its
// default: primary "all" drops filter, page 1 drops page, relevance drops
// sort. Meta tokens join under a single comma-separated parameter and the
// filter map is JSON-encoded under apollo.
func (s State) Encode() url.Values {
	q := url.Values{}
	if primary := s.Filter.Primary(); primary != CategoryAll {
		q.Set(ParamFilter, string(primary))
	}
	if meta := s.Filter.Meta(); len(meta) > 0 {
		tokens := make([]string, len(meta))
		for i, m := range meta {
			tokens[i] = string(m)
		}
		q.Set(ParamMeta, strings.Join(tokens, ","))
	}
	if s.Search != "" {
		q.Set(ParamSearch, s.Search)
	}
	if s.Sort != "" && s.Sort != SortRelevance {
		q.Set(ParamSort, s.Sort)
	}
	if s.Page > 1 {
		q.Set(ParamPage, strconv.Itoa(s.Page))
	}
	if encoded := EncodeFilterMap(s.Apollo); encoded != "" {
		q.Set(ParamApollo, encoded)
	}
	return q
}

// DecodeState parses query parameters into a state, tolerating malformed
// input: unknown filter and meta tokens are dropped silently, a bad page
// falls back to 1, an unknown sort key falls back to relevance, and
// malformed apollo JSON falls back to an empty map. Decoding never fails.
func DecodeState(q url.Values) State {
	s := NewState()

	if raw := q.Get(ParamFilter); raw != "" {
		if c := Category(raw); c.IsTableBacked() {
			s.Filter.Set(c, true)
		}
	}
	if raw := q.Get(ParamMeta); raw != "" {
		for _, tok := range strings.Split(raw, ",") {
			if c := Category(strings.TrimSpace(tok)); c.IsMeta() {
				s.Filter.Set(c, true)
			}
		}
	}
	s.Search = q.Get(ParamSearch)
	if raw := q.Get(ParamSort); KnownSort(raw) {
		s.Sort = raw
	}
	if raw := q.Get(ParamPage); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			s.Page = page
		}
	}
	s.Apollo = DecodeFilterMap(q.Get(ParamApollo))

	return s
}

// Differs reports whether the state's serialized form deviates from the
// given query for any tracked parameter. Callers use this to avoid feedback
// loops: a navigation is only issued when the state actually changes the URL.
func (s State) Differs(current url.Values) bool {
	want := s.Encode()
	for _, p := range []string{ParamFilter, ParamMeta, ParamSearch, ParamSort, ParamPage, ParamApollo} {
		if want.Get(p) != current.Get(p) {
			return true
		}
	}
	return false
}
