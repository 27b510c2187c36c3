package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact source vocabulary. Listings are the only source this service
// writes; imports may carry other sources.
const (
	ContactSourceListing = "listing"
)

// Contact is a saved-prospect record linking a user to a listing.
// Table: contacts
// Unique by (user_id, source, source_id); duplicate saves are a no-op.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_contacts_uuid" json:"uuid"`
	UserID    string    `gorm:"size:255;not null;uniqueIndex:uk_contacts_user_source;index:idx_contacts_user_id" json:"user_id"`
	Source    string    `gorm:"size:64;not null;uniqueIndex:uk_contacts_user_source" json:"source"`
	SourceID  string    `gorm:"size:2048;not null;uniqueIndex:uk_contacts_user_source" json:"source_id"`
	Name      *string   `gorm:"size:255" json:"name"`
	Email     *string   `gorm:"size:255" json:"email"`
	Phone     *string   `gorm:"size:64" json:"phone"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_contacts_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Contact) TableName() string { return "contacts" }

// ContactFilter represents filter criteria for contact queries
type ContactFilter struct {
	ID            *uint
	UserID        *string
	Source        *string
	SourceID      *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
