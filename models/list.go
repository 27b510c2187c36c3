package models

import (
	"time"

	"github.com/google/uuid"
)

// List is a named collection of saved listings owned by a user.
// Table: lists
type List struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_lists_uuid" json:"uuid"`
	UserID    string    `gorm:"size:255;not null;index:idx_lists_user_id" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Icon      *string   `gorm:"size:64" json:"icon"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_lists_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (List) TableName() string { return "lists" }

// ListFilter represents filter criteria for list queries
type ListFilter struct {
	ID     *uint
	UUID   *uuid.UUID
	UserID *string
	Name   *string
}

// ListMembership links a normalized item identifier to a list.
// Table: list_memberships
// Unique by (list_id, item_id); item_id is stored normalized so the same
// logical listing cannot appear twice under differently-formatted URLs.
type ListMembership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListID    uint      `gorm:"not null;uniqueIndex:uk_list_memberships_item;index:idx_list_memberships_list_id" json:"list_id"`
	ItemID    string    `gorm:"size:2048;not null;uniqueIndex:uk_list_memberships_item" json:"item_id"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (ListMembership) TableName() string { return "list_memberships" }

// ListMembershipFilter represents filter criteria for membership queries
type ListMembershipFilter struct {
	ID     *uint
	ListID *uint
	ItemID *string
}
