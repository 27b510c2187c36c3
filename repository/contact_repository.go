package repository

import (
	"context"
	"fmt"

	"github.com/leadmap/prospect-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContactRepositoryImpl implements ContactRepository interface
type ContactRepositoryImpl struct {
	*BaseRepository[models.Contact, models.ContactFilter]
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &ContactRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Contact, models.ContactFilter](db),
	}
}

// SaveIgnoreDuplicate inserts a contact. A conflict on (user_id, source,
// source_id) is swallowed: at most one contact may exist per user and source
// identifier, and re-saving is not an error.
func (r *ContactRepositoryImpl) SaveIgnoreDuplicate(ctx context.Context, contact *models.Contact) (bool, error) {
	db := r.getDB(ctx)
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "source"}, {Name: "source_id"}},
		DoNothing: true,
	}).Create(contact)
	if res.Error != nil {
		if IsDuplicateKey(res.Error) {
			return false, nil
		}
		return false, fmt.Errorf("failed to save contact: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListSourceIDs returns every source_id the user has saved for a source.
// The result backs the in_crm annotation and net-new exclusion.
func (r *ContactRepositoryImpl) ListSourceIDs(ctx context.Context, userID, source string) ([]string, error) {
	db := r.getDB(ctx)
	var ids []string
	err := db.Model(&models.Contact{}).
		Where("user_id = ? AND source = ?", userID, source).
		Pluck("source_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contact source IDs: %w", err)
	}
	return ids, nil
}

// DeleteByUserAndSource removes one saved contact.
func (r *ContactRepositoryImpl) DeleteByUserAndSource(ctx context.Context, userID, source, sourceID string) error {
	db := r.getDB(ctx)
	err := db.Where("user_id = ? AND source = ? AND source_id = ?", userID, source, sourceID).
		Delete(&models.Contact{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

func applyContactFilter(query *gorm.DB, filter models.ContactFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.SourceID != nil {
		query = query.Where("source_id = ?", *filter.SourceID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves contacts based on filter criteria
func (r *ContactRepositoryImpl) ByFilter(ctx context.Context, filter models.ContactFilter, orderBy string, limit, offset int) ([]*models.Contact, error) {
	db := r.getDB(ctx)
	query := applyContactFilter(db.Model(&models.Contact{}), filter)

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

	var rows []*models.Contact
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find contacts by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of contacts matching the filter
func (r *ContactRepositoryImpl) Count(ctx context.Context, filter models.ContactFilter) (int64, error) {
	db := r.getDB(ctx)
	query := applyContactFilter(db.Model(&models.Contact{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// Exists checks if any contact matching the filter exists
func (r *ContactRepositoryImpl) Exists(ctx context.Context, filter models.ContactFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
