package businessflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadmap/prospect-api/app/dto"
	"github.com/leadmap/prospect-api/models"
	"github.com/leadmap/prospect-api/repository"
	"github.com/leadmap/prospect-api/utils"
)

// ContactFlow saves and removes CRM prospects. Source identifiers are
// normalized on every write and lookup so URL-form variations collapse to
// one contact.
type ContactFlow interface {
	SaveContact(ctx context.Context, userID string, req *dto.SaveContactRequest) (*dto.SaveContactResponse, error)
	RemoveContact(ctx context.Context, userID, sourceID string) error
	ListContacts(ctx context.Context, userID string) ([]dto.ContactDTO, error)
}

type ContactFlowImpl struct {
	contactRepo repository.ContactRepository
}

func NewContactFlow(contactRepo repository.ContactRepository) ContactFlow {
	return &ContactFlowImpl{contactRepo: contactRepo}
}

func (f *ContactFlowImpl) SaveContact(ctx context.Context, userID string, req *dto.SaveContactRequest) (*dto.SaveContactResponse, error) {
	if userID == "" {
		return nil, NewBusinessError("USER_ID_REQUIRED", "User identifier is required", ErrUserIDRequired)
	}

	// listing_id is the canonical key; property_url is the fallback. At
	// least one must be present for any save.
	sourceID := utils.NormalizeItemID(req.ListingID)
	if sourceID == nil {
		sourceID = utils.NormalizeItemID(req.PropertyURL)
	}
	if sourceID == nil {
		return nil, NewBusinessError("IDENTIFIER_REQUIRED", "listing_id or property_url is required", ErrIdentifierRequired)
	}

	contact := &models.Contact{
		UUID:      uuid.New(),
		UserID:    userID,
		Source:    models.ContactSourceListing,
		SourceID:  *sourceID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}

	inserted, err := f.contactRepo.SaveIgnoreDuplicate(ctx, contact)
	if err != nil {
		return nil, NewBusinessError("CONTACT_SAVE_FAILED", "Failed to save contact", err)
	}

	return &dto.SaveContactResponse{
		UUID:         contact.UUID.String(),
		SourceID:     contact.SourceID,
		AlreadySaved: !inserted,
		CreatedAt:    contact.CreatedAt,
	}, nil
}

func (f *ContactFlowImpl) RemoveContact(ctx context.Context, userID, sourceID string) error {
	if userID == "" {
		return NewBusinessError("USER_ID_REQUIRED", "User identifier is required", ErrUserIDRequired)
	}
	normalized := utils.NormalizeItemID(sourceID)
	if normalized == nil {
		return NewBusinessError("IDENTIFIER_REQUIRED", "Source identifier is required", ErrIdentifierRequired)
	}
	if err := f.contactRepo.DeleteByUserAndSource(ctx, userID, models.ContactSourceListing, *normalized); err != nil {
		return NewBusinessError("CONTACT_DELETE_FAILED", "Failed to remove contact", err)
	}
	return nil
}

func (f *ContactFlowImpl) ListContacts(ctx context.Context, userID string) ([]dto.ContactDTO, error) {
	if userID == "" {
		return nil, NewBusinessError("USER_ID_REQUIRED", "User identifier is required", ErrUserIDRequired)
	}
	source := models.ContactSourceListing
	rows, err := f.contactRepo.ByFilter(ctx, models.ContactFilter{UserID: &userID, Source: &source}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LIST_FAILED", "Failed to list contacts", err)
	}
	out := make([]dto.ContactDTO, 0, len(rows))
	for _, c := range rows {
		out = append(out, ToContactDTO(*c))
	}
	return out, nil
}
