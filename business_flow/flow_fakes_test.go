package businessflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leadmap/prospect-api/models"
)

// errMissingTable mimics the driver error for a table the ingestion pipeline
// has not created yet.
var errMissingTable = errors.New(`relation "probate" does not exist (SQLSTATE 42P01)`)

func strp(s string) *string { return &s }
func fp(f float64) *float64 { return &f }

func row(id string, created time.Time) *models.Listing {
	return &models.Listing{
		ListingID: strp(id),
		CreatedAt: &created,
	}
}

// fakeListingRepo serves listings from per-table in-memory slices.
type fakeListingRepo struct {
	mu     sync.Mutex
	tables map[string][]*models.Listing
	errs   map[string]error
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		tables: make(map[string][]*models.Listing),
		errs:   make(map[string]error),
	}
}

func (r *fakeListingRepo) ByTable(_ context.Context, table string, filter models.ListingFilter, _ string, limit int) ([]*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.errs[table]; err != nil {
		return nil, err
	}
	out := make([]*models.Listing, 0)
	for _, l := range r.tables[table] {
		if filter.ListingID != nil && (l.ListingID == nil || *l.ListingID != *filter.ListingID) {
			continue
		}
		copied := *l
		out = append(out, &copied)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeListingRepo) CountTable(_ context.Context, table string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.errs[table]; err != nil {
		return 0, err
	}
	return int64(len(r.tables[table])), nil
}

func (r *fakeListingRepo) ByIdentifiers(_ context.Context, table string, identifiers []string) ([]*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.errs[table]; err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(identifiers))
	for _, id := range identifiers {
		wanted[id] = true
	}
	out := make([]*models.Listing, 0)
	for _, l := range r.tables[table] {
		if wanted[l.Identifier()] {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeContactRepo keeps contacts in a slice and enforces the
// (user_id, source, source_id) uniqueness the real table carries.
type fakeContactRepo struct {
	mu       sync.Mutex
	contacts []*models.Contact
	nextID   uint
	failWith error
}

func newFakeContactRepo() *fakeContactRepo { return &fakeContactRepo{} }

func (r *fakeContactRepo) ByID(_ context.Context, id uint) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeContactRepo) ByFilter(_ context.Context, filter models.ContactFilter, _ string, limit, offset int) ([]*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]*models.Contact, 0)
	for _, c := range r.contacts {
		if filter.UserID != nil && c.UserID != *filter.UserID {
			continue
		}
		if filter.Source != nil && c.Source != *filter.Source {
			continue
		}
		if filter.SourceID != nil && c.SourceID != *filter.SourceID {
			continue
		}
		out = append(out, c)
	}
	if offset > 0 {
		if offset >= len(out) {
			return []*models.Contact{}, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeContactRepo) Save(_ context.Context, c *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	r.contacts = append(r.contacts, c)
	return nil
}

func (r *fakeContactRepo) SaveBatch(ctx context.Context, cs []*models.Contact) error {
	for _, c := range cs {
		if err := r.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeContactRepo) Count(ctx context.Context, filter models.ContactFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *fakeContactRepo) Exists(ctx context.Context, filter models.ContactFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

func (r *fakeContactRepo) SaveIgnoreDuplicate(_ context.Context, c *models.Contact) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return false, r.failWith
	}
	for _, existing := range r.contacts {
		if existing.UserID == c.UserID && existing.Source == c.Source && existing.SourceID == c.SourceID {
			return false, nil
		}
	}
	r.nextID++
	c.ID = r.nextID
	r.contacts = append(r.contacts, c)
	return true, nil
}

func (r *fakeContactRepo) ListSourceIDs(_ context.Context, userID, source string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]string, 0)
	for _, c := range r.contacts {
		if c.UserID == userID && c.Source == source {
			out = append(out, c.SourceID)
		}
	}
	return out, nil
}

func (r *fakeContactRepo) DeleteByUserAndSource(_ context.Context, userID, source, sourceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.contacts[:0]
	for _, c := range r.contacts {
		if c.UserID == userID && c.Source == source && c.SourceID == sourceID {
			continue
		}
		kept = append(kept, c)
	}
	r.contacts = kept
	return nil
}

// fakeListRepo keeps lists in a slice keyed by UUID and numeric ID.
type fakeListRepo struct {
	mu          sync.Mutex
	lists       []*models.List
	nextID      uint
	memberships *fakeMembershipRepo
}

func newFakeListRepo(memberships *fakeMembershipRepo) *fakeListRepo {
	return &fakeListRepo{memberships: memberships}
}

func (r *fakeListRepo) ByID(_ context.Context, id uint) (*models.List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lists {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (r *fakeListRepo) ByFilter(_ context.Context, filter models.ListFilter, _ string, limit, offset int) ([]*models.List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.List, 0)
	for _, l := range r.lists {
		if filter.UserID != nil && l.UserID != *filter.UserID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeListRepo) Save(_ context.Context, l *models.List) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	l.ID = r.nextID
	r.lists = append(r.lists, l)
	return nil
}

func (r *fakeListRepo) SaveBatch(ctx context.Context, ls []*models.List) error {
	for _, l := range ls {
		if err := r.Save(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeListRepo) Count(ctx context.Context, filter models.ListFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *fakeListRepo) Exists(ctx context.Context, filter models.ListFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

func (r *fakeListRepo) ByUUID(_ context.Context, id uuid.UUID) (*models.List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lists {
		if l.UUID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (r *fakeListRepo) ListByUser(_ context.Context, userID string) ([]*models.List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.List, 0)
	for _, l := range r.lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListRepo) DeleteWithMemberships(ctx context.Context, listID uint) error {
	r.mu.Lock()
	kept := r.lists[:0]
	for _, l := range r.lists {
		if l.ID != listID {
			kept = append(kept, l)
		}
	}
	r.lists = kept
	r.mu.Unlock()
	return r.memberships.deleteByList(listID)
}

// fakeMembershipRepo keeps memberships in a slice and enforces the
// (list_id, item_id) uniqueness the real table carries.
type fakeMembershipRepo struct {
	mu          sync.Mutex
	memberships []*models.ListMembership
	nextID      uint
	listOwners  map[uint]string
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{listOwners: make(map[uint]string)}
}

func (r *fakeMembershipRepo) ByID(_ context.Context, id uint) (*models.ListMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memberships {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMembershipRepo) ByFilter(_ context.Context, filter models.ListMembershipFilter, _ string, limit, offset int) ([]*models.ListMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.ListMembership, 0)
	for _, m := range r.memberships {
		if filter.ListID != nil && m.ListID != *filter.ListID {
			continue
		}
		if filter.ItemID != nil && m.ItemID != *filter.ItemID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMembershipRepo) Save(_ context.Context, m *models.ListMembership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	r.memberships = append(r.memberships, m)
	return nil
}

func (r *fakeMembershipRepo) SaveBatch(ctx context.Context, ms []*models.ListMembership) error {
	for _, m := range ms {
		if err := r.Save(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeMembershipRepo) Count(ctx context.Context, filter models.ListMembershipFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *fakeMembershipRepo) Exists(ctx context.Context, filter models.ListMembershipFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

func (r *fakeMembershipRepo) AddIgnoreDuplicate(_ context.Context, m *models.ListMembership) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.memberships {
		if existing.ListID == m.ListID && existing.ItemID == m.ItemID {
			return false, nil
		}
	}
	r.nextID++
	m.ID = r.nextID
	r.memberships = append(r.memberships, m)
	return true, nil
}

func (r *fakeMembershipRepo) ListItemIDsByUser(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0)
	for _, m := range r.memberships {
		if r.listOwners[m.ListID] == userID {
			out = append(out, m.ItemID)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) DeleteByListAndItem(_ context.Context, listID uint, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.memberships[:0]
	for _, m := range r.memberships {
		if m.ListID == listID && m.ItemID == itemID {
			continue
		}
		kept = append(kept, m)
	}
	r.memberships = kept
	return nil
}

func (r *fakeMembershipRepo) deleteByList(listID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.memberships[:0]
	for _, m := range r.memberships {
		if m.ListID != listID {
			kept = append(kept, m)
		}
	}
	r.memberships = kept
	return nil
}
