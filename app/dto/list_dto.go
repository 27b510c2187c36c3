package dto

import "time"

// CreateListRequest creates a named collection.
type CreateListRequest struct {
	Name string  `json:"name" validate:"required,min=1,max=255"`
	Icon *string `json:"icon" validate:"omitempty,max=64"`
}

// ListDTO is the outward list representation.
type ListDTO struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Icon      *string   `json:"icon"`
	ItemCount int64     `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// AddListItemRequest adds one listing identifier to a list. The identifier
// is normalized before storage.
type AddListItemRequest struct {
	ItemID string `json:"item_id" validate:"required,min=1,max=2048"`
}

// AddListItemResponse reports the outcome of an add.
type AddListItemResponse struct {
	ItemID        string `json:"item_id"`
	AlreadyMember bool   `json:"already_member"`
}
