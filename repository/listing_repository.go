package repository

import (
	"context"
	"fmt"

	"github.com/leadmap/prospect-api/models"
	"gorm.io/gorm"
)

// ListingRepositoryImpl implements ListingRepository over the shared listing
// row shape. Every read targets a caller-chosen physical table.
type ListingRepositoryImpl struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &ListingRepositoryImpl{db: db}
}

func (r *ListingRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// ByTable retrieves listings from the given category table. A missing table
// surfaces as-is; callers decide whether that is fatal (single-category read)
// or an empty contribution ("all" aggregation).
func (r *ListingRepositoryImpl) ByTable(ctx context.Context, table string, filter models.ListingFilter, orderBy string, limit int) ([]*models.Listing, error) {
	db := r.getDB(ctx)
	query := db.Table(table)

	query = applyListingFilter(query, filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []*models.Listing
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read listings from %s: %w", table, err)
	}
	return rows, nil
}

// CountTable returns the number of rows in a category table.
func (r *ListingRepositoryImpl) CountTable(ctx context.Context, table string) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := db.Table(table).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count listings in %s: %w", table, err)
	}
	return count, nil
}

// normalizedPropertyURLExpr rewrites the stored property_url into the same
// canonical form utils.NormalizeItemID produces: scheme and query stripped,
// trailing slashes trimmed, lower-cased. Stored URLs are raw scraper output
// while membership identifiers are normalized, so the comparison has to
// happen on the normalized form.
// The literal '?' is spelled chr(63) so GORM's placeholder scanner does not
// consume it as a bind parameter.
const normalizedPropertyURLExpr = "rtrim(regexp_replace(regexp_replace(lower(property_url), '^[a-z][a-z0-9+.-]*://', ''), '[' || chr(63) || '#].*$', ''), '/')"

// ByIdentifiers retrieves rows whose listing_id or normalized property_url
// is in the given identifier list. Used to hydrate the saved view from CRM
// source IDs.
func (r *ListingRepositoryImpl) ByIdentifiers(ctx context.Context, table string, identifiers []string) ([]*models.Listing, error) {
	if len(identifiers) == 0 {
		return []*models.Listing{}, nil
	}
	db := r.getDB(ctx)
	var rows []*models.Listing
	err := db.Table(table).
		Where("listing_id IN ? OR "+normalizedPropertyURLExpr+" IN ?", identifiers, identifiers).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read listings by identifiers from %s: %w", table, err)
	}
	return rows, nil
}

func applyListingFilter(query *gorm.DB, filter models.ListingFilter) *gorm.DB {
	if filter.ListingID != nil {
		query = query.Where("listing_id = ?", *filter.ListingID)
	}
	if filter.City != nil {
		query = query.Where("city = ?", *filter.City)
	}
	if filter.State != nil {
		query = query.Where("state = ?", *filter.State)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}
