package repository

import (
	"context"
	"fmt"

	"github.com/leadmap/prospect-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListMembershipRepositoryImpl implements ListMembershipRepository interface
type ListMembershipRepositoryImpl struct {
	*BaseRepository[models.ListMembership, models.ListMembershipFilter]
}

// NewListMembershipRepository creates a new list membership repository
func NewListMembershipRepository(db *gorm.DB) ListMembershipRepository {
	return &ListMembershipRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ListMembership, models.ListMembershipFilter](db),
	}
}

// AddIgnoreDuplicate inserts a membership; a duplicate (list_id, item_id)
// is swallowed. Item identifiers must already be normalized.
func (r *ListMembershipRepositoryImpl) AddIgnoreDuplicate(ctx context.Context, m *models.ListMembership) (bool, error) {
	db := r.getDB(ctx)
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "list_id"}, {Name: "item_id"}},
		DoNothing: true,
	}).Create(m)
	if res.Error != nil {
		if IsDuplicateKey(res.Error) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add list membership: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListItemIDsByUser returns the normalized item identifiers present in any
// of the user's lists. Backs the net-new exclusion.
func (r *ListMembershipRepositoryImpl) ListItemIDsByUser(ctx context.Context, userID string) ([]string, error) {
	db := r.getDB(ctx)
	var ids []string
	err := db.Model(&models.ListMembership{}).
		Joins("JOIN lists ON lists.id = list_memberships.list_id").
		Where("lists.user_id = ?", userID).
		Pluck("list_memberships.item_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list membership item IDs: %w", err)
	}
	return ids, nil
}

// DeleteByListAndItem removes one membership row.
func (r *ListMembershipRepositoryImpl) DeleteByListAndItem(ctx context.Context, listID uint, itemID string) error {
	db := r.getDB(ctx)
	err := db.Where("list_id = ? AND item_id = ?", listID, itemID).
		Delete(&models.ListMembership{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete list membership: %w", err)
	}
	return nil
}

func applyMembershipFilter(query *gorm.DB, filter models.ListMembershipFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.ListID != nil {
		query = query.Where("list_id = ?", *filter.ListID)
	}
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	return query
}

// ByFilter retrieves memberships based on filter criteria
func (r *ListMembershipRepositoryImpl) ByFilter(ctx context.Context, filter models.ListMembershipFilter, orderBy string, limit, offset int) ([]*models.ListMembership, error) {
	db := r.getDB(ctx)
	query := applyMembershipFilter(db.Model(&models.ListMembership{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.ListMembership
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find list memberships by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of memberships matching the filter
func (r *ListMembershipRepositoryImpl) Count(ctx context.Context, filter models.ListMembershipFilter) (int64, error) {
	db := r.getDB(ctx)
	query := applyMembershipFilter(db.Model(&models.ListMembership{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count list memberships: %w", err)
	}
	return count, nil
}

// Exists checks if any membership matching the filter exists
func (r *ListMembershipRepositoryImpl) Exists(ctx context.Context, filter models.ListMembershipFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
