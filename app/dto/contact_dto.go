package dto

import "time"

// SaveContactRequest saves one listing into the user's CRM.
type SaveContactRequest struct {
	ListingID   string  `json:"listing_id" validate:"omitempty,max=255"`
	PropertyURL string  `json:"property_url" validate:"omitempty,max=2048"`
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=64"`
}

// SaveContactResponse reports the outcome of a save.
type SaveContactResponse struct {
	UUID          string    `json:"uuid"`
	SourceID      string    `json:"source_id"`
	AlreadySaved  bool      `json:"already_saved"`
	CreatedAt     time.Time `json:"created_at"`
}

// ContactDTO is the outward contact representation.
type ContactDTO struct {
	UUID      string    `json:"uuid"`
	Source    string    `json:"source"`
	SourceID  string    `json:"source_id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
