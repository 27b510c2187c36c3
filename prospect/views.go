package prospect

import (
	"time"

	"github.com/leadmap/prospect-api/models"
)

// View selects which derived slice of the category set a caller sees.
type View string

const (
	ViewTotal  View = "total"
	ViewNetNew View = "net_new"
	ViewSaved  View = "saved"
)

// ParseView validates a view token, defaulting to total.
func ParseView(s string) View {
	switch View(s) {
	case ViewNetNew, ViewSaved:
		return View(s)
	default:
		return ViewTotal
	}
}

// IDSet is a membership set of canonical listing identifiers.
type IDSet map[string]struct{}

// NewIDSet builds a set from identifiers, skipping empties.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Has reports membership; the empty identifier is never a member.
func (s IDSet) Has(id string) bool {
	if id == "" {
		return false
	}
	_, ok := s[id]
	return ok
}

// ViewCounts are the stable per-category totals shown on the view tabs. They
// are derived from the unfiltered category set and change only when the
// category, CRM membership, or list membership changes — never when the user
// adjusts transient predicate filters.
type ViewCounts struct {
	Total  int `json:"total"`
	NetNew int `json:"net_new"`
	Saved  int `json:"saved"`
}

// Total is the identity view: the full per-category record set, saved items
// included.
func Total(records []*models.Listing) []*models.Listing { return records }

// NetNew keeps records recently created or updated (within windowDays of
// now) whose identifier is in neither the CRM set nor the list-membership
// set. Records lacking both timestamps are excluded.
func NetNew(records []*models.Listing, crmIDs, listIDs IDSet, windowDays int, now time.Time) []*models.Listing {
	out := make([]*models.Listing, 0, len(records))
	for _, l := range records {
		if !IsRecent(l, windowDays, now) {
			continue
		}
		id := l.Identifier()
		if crmIDs.Has(id) || listIDs.Has(id) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Saved intersects externally-fetched saved records with the current
// category's identifier set, deduplicating by identifier in case the saved
// fetch returned overlapping rows. First occurrence wins.
func Saved(savedRecords []*models.Listing, categoryIDs IDSet) []*models.Listing {
	seen := make(IDSet, len(savedRecords))
	out := make([]*models.Listing, 0, len(savedRecords))
	for _, l := range savedRecords {
		id := l.Identifier()
		if !categoryIDs.Has(id) || seen.Has(id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, l)
	}
	return out
}

// Dedup collapses records sharing an identifier, keeping the first
// occurrence. Records with no identifier are kept as-is; they cannot collide.
func Dedup(records []*models.Listing) []*models.Listing {
	seen := make(IDSet, len(records))
	out := make([]*models.Listing, 0, len(records))
	for _, l := range records {
		id := l.Identifier()
		if id != "" {
			if seen.Has(id) {
				continue
			}
			seen[id] = struct{}{}
		}
		out = append(out, l)
	}
	return out
}

// Identifiers collects the canonical identifiers of records, skipping rows
// without one.
func Identifiers(records []*models.Listing) IDSet {
	s := make(IDSet, len(records))
	for _, l := range records {
		if id := l.Identifier(); id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Counts computes the per-view totals from the unfiltered category set.
// Net-new is counted from the full set before CRM exclusion of the displayed
// list, matching the view derivation itself.
func Counts(records []*models.Listing, savedRecords []*models.Listing, crmIDs, listIDs IDSet, windowDays int, now time.Time) ViewCounts {
	ids := Identifiers(records)
	return ViewCounts{
		Total:  len(records),
		NetNew: len(NetNew(records, crmIDs, listIDs, windowDays, now)),
		Saved:  len(Saved(savedRecords, ids)),
	}
}

// PatchInPlace replaces the first record whose identifier matches patched,
// returning true when a replacement happened. Used for the optimistic local
// update after a detail-view edit.
func PatchInPlace(records []*models.Listing, patched *models.Listing) bool {
	id := patched.Identifier()
	if id == "" {
		return false
	}
	for i, l := range records {
		if l.Identifier() == id {
			records[i] = patched
			return true
		}
	}
	return false
}
