// Package testing provides test utilities and database setup for testing the prospect dashboard
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/leadmap/prospect-api/models"
	"github.com/leadmap/prospect-api/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestListing inserts one listing row into the named category table.
func (tf *TestFixtures) CreateTestListing(table, listingID string) (*models.Listing, error) {
	now := utils.UTCNow()
	listing := &models.Listing{
		ListingID:   utils.ToPtr(listingID),
		PropertyURL: utils.ToPtr(fmt.Sprintf("example.com/homes/%s", listingID)),
		Street:      utils.ToPtr(fmt.Sprintf("%d Oak Ln", rand.Intn(9000)+100)),
		City:        utils.ToPtr("Austin"),
		State:       utils.ToPtr("TX"),
		ZipCode:     utils.ToPtr("78701"),
		Beds:        utils.ToPtr(float64(rand.Intn(4) + 1)),
		FullBaths:   utils.ToPtr(2.0),
		ListPrice:   utils.ToPtr(float64(rand.Intn(800_000) + 100_000)),
		Status:      utils.ToPtr("FOR_SALE"),
		Active:      utils.ToPtr(true),
		CreatedAt:   &now,
	}

	if err := tf.DB.DB.Table(table).Create(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create test listing in %s: %w", table, err)
	}
	return listing, nil
}

// CreateTestListingAt inserts a listing with a specific creation time, for
// recency-window tests.
func (tf *TestFixtures) CreateTestListingAt(table, listingID string, createdAt time.Time) (*models.Listing, error) {
	listing, err := tf.CreateTestListing(table, listingID)
	if err != nil {
		return nil, err
	}
	if err := tf.DB.DB.Table(table).Where("id = ?", listing.ID).Update("created_at", createdAt).Error; err != nil {
		return nil, fmt.Errorf("failed to backdate test listing %s: %w", listingID, err)
	}
	listing.CreatedAt = &createdAt
	return listing, nil
}

// CreateTestContact saves one CRM contact for the user.
func (tf *TestFixtures) CreateTestContact(userID, sourceID string) (*models.Contact, error) {
	contact := &models.Contact{
		UUID:      uuid.New(),
		UserID:    userID,
		Source:    models.ContactSourceListing,
		SourceID:  sourceID,
		Name:      utils.ToPtr("Pat Smith"),
		Email:     utils.ToPtr(fmt.Sprintf("pat.%d@example.com", rand.Intn(1_000_000))),
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to create test contact: %w", err)
	}
	return contact, nil
}

// CreateTestList creates a named list owned by the user.
func (tf *TestFixtures) CreateTestList(userID, name string) (*models.List, error) {
	list := &models.List{
		UUID:      uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(list).Error; err != nil {
		return nil, fmt.Errorf("failed to create test list: %w", err)
	}
	return list, nil
}

// AddTestMembership links a normalized item identifier to a list.
func (tf *TestFixtures) AddTestMembership(listID uint, itemID string) (*models.ListMembership, error) {
	m := &models.ListMembership{
		ListID:    listID,
		ItemID:    itemID,
		CreatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to create test membership: %w", err)
	}
	return m, nil
}
