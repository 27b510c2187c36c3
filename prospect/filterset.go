package prospect

// FilterSet holds the active category and meta-filter tokens. Invariants
// maintained by every mutation:
//   - at most one table-backed token at a time (toggling a second replaces
//     the first)
//   - the set is never empty; removing the last table-backed token reverts
//     to {all}
//
// The zero value is not usable; construct with NewFilterSet.
type FilterSet struct {
	tokens map[Category]struct{}
}

// NewFilterSet returns a set containing the given tokens, applied through
// Toggle semantics in order. An empty call yields {all}.
func NewFilterSet(tokens ...Category) FilterSet {
	fs := FilterSet{tokens: map[Category]struct{}{CategoryAll: {}}}
	for _, t := range tokens {
		fs.Set(t, true)
	}
	return fs
}

// Has reports whether the token is active.
func (fs FilterSet) Has(c Category) bool {
	_, ok := fs.tokens[c]
	return ok
}

// Toggle flips the token and returns the resulting set.
func (fs FilterSet) Toggle(c Category) FilterSet {
	return fs.Set(c, !fs.Has(c))
}

// Set activates or deactivates a token in place, preserving the invariants.
// Unknown tokens are ignored. Returns the set for chaining.
func (fs FilterSet) Set(c Category, active bool) FilterSet {
	if !c.IsKnown() {
		return fs
	}
	if active {
		if c.IsTableBacked() {
			for existing := range fs.tokens {
				if existing.IsTableBacked() {
					delete(fs.tokens, existing)
				}
			}
		}
		fs.tokens[c] = struct{}{}
	} else {
		delete(fs.tokens, c)
	}
	// Never-empty invariant: a table-backed token must always be present.
	if fs.Primary() == CategoryAll && !fs.Has(CategoryAll) {
		fs.tokens[CategoryAll] = struct{}{}
	}
	return fs
}

// Primary resolves the single active table-backed category by scanning the
// fixed priority order. Returns "all" when none match.
func (fs FilterSet) Primary() Category {
	for _, c := range categoryPriority {
		if fs.Has(c) {
			return c
		}
	}
	return CategoryAll
}

// Meta returns the active meta tokens in canonical order.
func (fs FilterSet) Meta() []Category {
	var out []Category
	for _, c := range metaCategories {
		if fs.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Tokens returns all active tokens, primary first then meta, in canonical
// order. Used for export filenames and logging.
func (fs FilterSet) Tokens() []Category {
	out := []Category{fs.Primary()}
	return append(out, fs.Meta()...)
}

// Clone returns an independent copy.
func (fs FilterSet) Clone() FilterSet {
	out := FilterSet{tokens: make(map[Category]struct{}, len(fs.tokens))}
	for c := range fs.tokens {
		out.tokens[c] = struct{}{}
	}
	return out
}
