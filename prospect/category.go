// Package prospect implements the in-memory core of the lead dashboard:
// category resolution, composable predicate filtering, view derivation,
// sorting, and the URL query-state codec.
package prospect

// Category classifies a listing's source segment. Table-backed categories are
// mutually exclusive and map to one physical table each; meta categories are
// derived from listing data and combine freely.
type Category string

const (
	CategoryAll         Category = "all"
	CategoryExpired     Category = "expired"
	CategoryProbate     Category = "probate"
	CategoryFSBO        Category = "fsbo"
	CategoryFRBO        Category = "frbo"
	CategoryImports     Category = "imports"
	CategoryTrash       Category = "trash"
	CategoryForeclosure Category = "foreclosure"

	CategoryHighValue   Category = "high_value"
	CategoryPriceDrop   Category = "price_drop"
	CategoryNewListings Category = "new_listings"
)

// DefaultTable backs the "all" category and any unknown token.
const DefaultTable = "listings"

var categoryTables = map[Category]string{
	CategoryAll:         DefaultTable,
	CategoryExpired:     "expired",
	CategoryProbate:     "probate",
	CategoryFSBO:        "fsbo",
	CategoryFRBO:        "frbo",
	CategoryImports:     "imports",
	CategoryTrash:       "trash",
	CategoryForeclosure: "foreclosure",
}

// categoryPriority is the tie-break order for PrimaryCategory. If a filter
// set somehow carries two table-backed tokens, the earlier one wins.
var categoryPriority = []Category{
	CategoryExpired,
	CategoryProbate,
	CategoryFSBO,
	CategoryFRBO,
	CategoryImports,
	CategoryTrash,
	CategoryForeclosure,
	CategoryAll,
}

// metaCategories in canonical serialization order.
var metaCategories = []Category{
	CategoryHighValue,
	CategoryPriceDrop,
	CategoryNewListings,
}

// TableFor maps a category to its physical table. Total function: unknown
// categories fall back to the default listings table.
func TableFor(c Category) string {
	if t, ok := categoryTables[c]; ok {
		return t
	}
	return DefaultTable
}

// AllTables returns every category table consumed by the "all" aggregation,
// default table first.
func AllTables() []string {
	tables := make([]string, 0, len(categoryPriority))
	tables = append(tables, DefaultTable)
	for _, c := range categoryPriority {
		if c == CategoryAll {
			continue
		}
		tables = append(tables, categoryTables[c])
	}
	return tables
}

// IsTableBacked reports whether c selects a physical table.
func (c Category) IsTableBacked() bool {
	_, ok := categoryTables[c]
	return ok
}

// IsMeta reports whether c is a derived meta filter.
func (c Category) IsMeta() bool {
	switch c {
	case CategoryHighValue, CategoryPriceDrop, CategoryNewListings:
		return true
	}
	return false
}

// IsKnown reports whether c belongs to the fixed category vocabulary.
func (c Category) IsKnown() bool {
	return c.IsTableBacked() || c.IsMeta()
}
