// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/leadmap/prospect-api/app/dto"
	"github.com/leadmap/prospect-api/models"
	"github.com/leadmap/prospect-api/prospect"
)

// ToContactDTO converts a contact model for API responses
func ToContactDTO(contact models.Contact) dto.ContactDTO {
	return dto.ContactDTO{
		UUID:      contact.UUID.String(),
		Source:    contact.Source,
		SourceID:  contact.SourceID,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		CreatedAt: contact.CreatedAt,
	}
}

// ToListDTO converts a list model for API responses
func ToListDTO(list models.List, itemCount int64) dto.ListDTO {
	return dto.ListDTO{
		UUID:      list.UUID.String(),
		Name:      list.Name,
		Icon:      list.Icon,
		ItemCount: itemCount,
		CreatedAt: list.CreatedAt,
	}
}

// ToViewCountsDTO converts derived view counts for API responses
func ToViewCountsDTO(c prospect.ViewCounts) dto.ViewCountsDTO {
	return dto.ViewCountsDTO{
		Total:  c.Total,
		NetNew: c.NetNew,
		Saved:  c.Saved,
	}
}
