package businessflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadmap/prospect-api/app/dto"
	"github.com/leadmap/prospect-api/models"
	"github.com/leadmap/prospect-api/repository"
	"github.com/leadmap/prospect-api/utils"
)

// ListFlow manages user-owned lists and their memberships. Item identifiers
// are normalized before storage and before every lookup so the same logical
// listing cannot join a list twice under differently-formatted URLs.
type ListFlow interface {
	CreateList(ctx context.Context, userID string, req *dto.CreateListRequest) (*dto.ListDTO, error)
	GetLists(ctx context.Context, userID string) ([]dto.ListDTO, error)
	DeleteList(ctx context.Context, userID string, listUUID uuid.UUID) error
	AddItem(ctx context.Context, userID string, listUUID uuid.UUID, req *dto.AddListItemRequest) (*dto.AddListItemResponse, error)
	RemoveItem(ctx context.Context, userID string, listUUID uuid.UUID, itemID string) error
}

type ListFlowImpl struct {
	listRepo       repository.ListRepository
	membershipRepo repository.ListMembershipRepository
}

func NewListFlow(listRepo repository.ListRepository, membershipRepo repository.ListMembershipRepository) ListFlow {
	return &ListFlowImpl{listRepo: listRepo, membershipRepo: membershipRepo}
}

func (f *ListFlowImpl) CreateList(ctx context.Context, userID string, req *dto.CreateListRequest) (*dto.ListDTO, error) {
	if userID == "" {
		return nil, NewBusinessError("USER_ID_REQUIRED", "User identifier is required", ErrUserIDRequired)
	}
	if req.Name == "" {
		return nil, NewBusinessError("LIST_NAME_REQUIRED", "List name is required", ErrListNameRequired)
	}

	list := &models.List{
		UUID:      uuid.New(),
		UserID:    userID,
		Name:      req.Name,
		Icon:      req.Icon,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}
	if err := f.listRepo.Save(ctx, list); err != nil {
		return nil, NewBusinessError("LIST_CREATE_FAILED", "Failed to create list", err)
	}

	out := ToListDTO(*list, 0)
	return &out, nil
}

func (f *ListFlowImpl) GetLists(ctx context.Context, userID string) ([]dto.ListDTO, error) {
	if userID == "" {
		return nil, NewBusinessError("USER_ID_REQUIRED", "User identifier is required", ErrUserIDRequired)
	}
	lists, err := f.listRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("LIST_FETCH_FAILED", "Failed to fetch lists", err)
	}

	out := make([]dto.ListDTO, 0, len(lists))
	for _, l := range lists {
		count, err := f.membershipRepo.Count(ctx, models.ListMembershipFilter{ListID: &l.ID})
		if err != nil {
			return nil, NewBusinessError("LIST_COUNT_FAILED", "Failed to count list items", err)
		}
		out = append(out, ToListDTO(*l, count))
	}
	return out, nil
}

func (f *ListFlowImpl) DeleteList(ctx context.Context, userID string, listUUID uuid.UUID) error {
	list, err := f.ownedList(ctx, userID, listUUID)
	if err != nil {
		return err
	}
	if err := f.listRepo.DeleteWithMemberships(ctx, list.ID); err != nil {
		return NewBusinessError("LIST_DELETE_FAILED", "Failed to delete list", err)
	}
	return nil
}

func (f *ListFlowImpl) AddItem(ctx context.Context, userID string, listUUID uuid.UUID, req *dto.AddListItemRequest) (*dto.AddListItemResponse, error) {
	list, err := f.ownedList(ctx, userID, listUUID)
	if err != nil {
		return nil, err
	}

	normalized := utils.NormalizeItemID(req.ItemID)
	if normalized == nil {
		return nil, NewBusinessError("ITEM_ID_REQUIRED", "Item identifier is required", ErrItemIDRequired)
	}

	inserted, err := f.membershipRepo.AddIgnoreDuplicate(ctx, &models.ListMembership{
		ListID:    list.ID,
		ItemID:    *normalized,
		CreatedAt: utils.UTCNow(),
	})
	if err != nil {
		return nil, NewBusinessError("LIST_ADD_FAILED", "Failed to add item to list", err)
	}

	return &dto.AddListItemResponse{ItemID: *normalized, AlreadyMember: !inserted}, nil
}

func (f *ListFlowImpl) RemoveItem(ctx context.Context, userID string, listUUID uuid.UUID, itemID string) error {
	list, err := f.ownedList(ctx, userID, listUUID)
	if err != nil {
		return err
	}
	normalized := utils.NormalizeItemID(itemID)
	if normalized == nil {
		return NewBusinessError("ITEM_ID_REQUIRED", "Item identifier is required", ErrItemIDRequired)
	}
	if err := f.membershipRepo.DeleteByListAndItem(ctx, list.ID, *normalized); err != nil {
		return NewBusinessError("LIST_REMOVE_FAILED", "Failed to remove item from list", err)
	}
	return nil
}

func (f *ListFlowImpl) ownedList(ctx context.Context, userID string, listUUID uuid.UUID) (*models.List, error) {
	if userID == "" {
		return nil, NewBusinessError("USER_ID_REQUIRED", "User identifier is required", ErrUserIDRequired)
	}
	list, err := f.listRepo.ByUUID(ctx, listUUID)
	if err != nil {
		return nil, NewBusinessError("LIST_FETCH_FAILED", "Failed to fetch list", err)
	}
	if list == nil {
		return nil, NewBusinessError("LIST_NOT_FOUND", "List not found", ErrListNotFound)
	}
	if list.UserID != userID {
		return nil, NewBusinessError("LIST_ACCESS_DENIED", "List access denied", ErrListAccessDenied)
	}
	return list, nil
}
