package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/leadmap/prospect-api/models"
	"gorm.io/gorm"
)

// ListRepositoryImpl implements ListRepository interface
type ListRepositoryImpl struct {
	*BaseRepository[models.List, models.ListFilter]
}

// NewListRepository creates a new list repository
func NewListRepository(db *gorm.DB) ListRepository {
	return &ListRepositoryImpl{
		BaseRepository: NewBaseRepository[models.List, models.ListFilter](db),
	}
}

// ByUUID retrieves a list by its public UUID
func (r *ListRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.List, error) {
	db := r.getDB(ctx)
	var row models.List
	if err := db.Where("uuid = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find list by UUID: %w", err)
	}
	return &row, nil
}

// ListByUser retrieves every list owned by a user, newest first
func (r *ListRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*models.List, error) {
	return r.ByFilter(ctx, models.ListFilter{UserID: &userID}, "created_at DESC", 0, 0)
}

// DeleteWithMemberships removes a list and its memberships atomically.
func (r *ListRepositoryImpl) DeleteWithMemberships(ctx context.Context, listID uint) error {
	return WithTransaction(ctx, r.DB, func(txCtx context.Context) error {
		db := r.getDB(txCtx)
		if err := db.Where("list_id = ?", listID).Delete(&models.ListMembership{}).Error; err != nil {
			return fmt.Errorf("failed to delete list memberships: %w", err)
		}
		if err := db.Delete(&models.List{}, listID).Error; err != nil {
			return fmt.Errorf("failed to delete list: %w", err)
		}
		return nil
	})
}

func applyListFilter(query *gorm.DB, filter models.ListFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	return query
}

// ByFilter retrieves lists based on filter criteria
func (r *ListRepositoryImpl) ByFilter(ctx context.Context, filter models.ListFilter, orderBy string, limit, offset int) ([]*models.List, error) {
	db := r.getDB(ctx)
	query := applyListFilter(db.Model(&models.List{}), filter)

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

	var rows []*models.List
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find lists by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of lists matching the filter
func (r *ListRepositoryImpl) Count(ctx context.Context, filter models.ListFilter) (int64, error) {
	db := r.getDB(ctx)
	query := applyListFilter(db.Model(&models.List{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count lists: %w", err)
	}
	return count, nil
}

// Exists checks if any list matching the filter exists
func (r *ListRepositoryImpl) Exists(ctx context.Context, filter models.ListFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
