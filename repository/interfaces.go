// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadmap/prospect-api/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// ListingRepository defines reads over the category listing tables. The
// physical table is chosen per call because the eight category tables share
// one row shape.
type ListingRepository interface {
	ByTable(ctx context.Context, table string, filter models.ListingFilter, orderBy string, limit int) ([]*models.Listing, error)
	CountTable(ctx context.Context, table string) (int64, error)
	ByIdentifiers(ctx context.Context, table string, identifiers []string) ([]*models.Listing, error)
}

// ContactRepository defines operations for saved-prospect CRM contacts.
type ContactRepository interface {
	Repository[models.Contact, models.ContactFilter]
	// SaveIgnoreDuplicate inserts a contact; a unique-constraint hit on
	// (user_id, source, source_id) is a no-op. Returns true when a row was
	// actually inserted.
	SaveIgnoreDuplicate(ctx context.Context, contact *models.Contact) (bool, error)
	ListSourceIDs(ctx context.Context, userID, source string) ([]string, error)
	DeleteByUserAndSource(ctx context.Context, userID, source, sourceID string) error
}

// ListRepository defines operations for user-owned lists.
type ListRepository interface {
	Repository[models.List, models.ListFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.List, error)
	ListByUser(ctx context.Context, userID string) ([]*models.List, error)
	DeleteWithMemberships(ctx context.Context, listID uint) error
}

// ListMembershipRepository defines operations for list memberships. Item
// identifiers are stored normalized; callers normalize before every write and
// lookup.
type ListMembershipRepository interface {
	Repository[models.ListMembership, models.ListMembershipFilter]
	// AddIgnoreDuplicate inserts a membership; a duplicate (list_id,
	// item_id) is a no-op. Returns true when a row was actually inserted.
	AddIgnoreDuplicate(ctx context.Context, m *models.ListMembership) (bool, error)
	ListItemIDsByUser(ctx context.Context, userID string) ([]string, error)
	DeleteByListAndItem(ctx context.Context, listID uint, itemID string) error
}
