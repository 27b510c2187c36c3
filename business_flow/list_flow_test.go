package businessflow

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leadmap/prospect-api/app/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listFixture struct {
	lists       *fakeListRepo
	memberships *fakeMembershipRepo
	flow        ListFlow
}

func newListFixture() *listFixture {
	memberships := newFakeMembershipRepo()
	lists := newFakeListRepo(memberships)
	return &listFixture{
		lists:       lists,
		memberships: memberships,
		flow:        NewListFlow(lists, memberships),
	}
}

func (fx *listFixture) createList(t *testing.T, userID, name string) uuid.UUID {
	t.Helper()
	created, err := fx.flow.CreateList(context.Background(), userID, &dto.CreateListRequest{Name: name})
	require.NoError(t, err)
	id, err := uuid.Parse(created.UUID)
	require.NoError(t, err)
	return id
}

func TestCreateList(t *testing.T) {
	t.Run("CreatesWithFreshUUID", func(t *testing.T) {
		fx := newListFixture()
		created, err := fx.flow.CreateList(context.Background(), testUserID, &dto.CreateListRequest{
			Name: "Hot leads",
			Icon: strp("flame"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Hot leads", created.Name)
		assert.Equal(t, "flame", *created.Icon)
		assert.Equal(t, int64(0), created.ItemCount)
		assert.NotEmpty(t, created.UUID)
	})

	t.Run("NameRequired", func(t *testing.T) {
		fx := newListFixture()
		_, err := fx.flow.CreateList(context.Background(), testUserID, &dto.CreateListRequest{})
		require.Error(t, err)
		var be *BusinessError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "LIST_NAME_REQUIRED", be.Code)
	})
}

func TestGetLists(t *testing.T) {
	fx := newListFixture()
	listUUID := fx.createList(t, testUserID, "Mine")
	fx.createList(t, "someone-else", "Theirs")

	_, err := fx.flow.AddItem(context.Background(), testUserID, listUUID, &dto.AddListItemRequest{ItemID: "mls-1"})
	require.NoError(t, err)
	_, err = fx.flow.AddItem(context.Background(), testUserID, listUUID, &dto.AddListItemRequest{ItemID: "mls-2"})
	require.NoError(t, err)

	lists, err := fx.flow.GetLists(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Mine", lists[0].Name)
	assert.Equal(t, int64(2), lists[0].ItemCount)
}

func TestDeleteList(t *testing.T) {
	t.Run("DeletesListAndMemberships", func(t *testing.T) {
		fx := newListFixture()
		listUUID := fx.createList(t, testUserID, "Mine")
		_, err := fx.flow.AddItem(context.Background(), testUserID, listUUID, &dto.AddListItemRequest{ItemID: "mls-1"})
		require.NoError(t, err)

		require.NoError(t, fx.flow.DeleteList(context.Background(), testUserID, listUUID))
		assert.Empty(t, fx.lists.lists)
		assert.Empty(t, fx.memberships.memberships)
	})

	t.Run("UnknownList", func(t *testing.T) {
		fx := newListFixture()
		err := fx.flow.DeleteList(context.Background(), testUserID, uuid.New())
		assert.True(t, IsListNotFound(err))
	})

	t.Run("ForeignListIsDenied", func(t *testing.T) {
		fx := newListFixture()
		listUUID := fx.createList(t, "someone-else", "Theirs")
		err := fx.flow.DeleteList(context.Background(), testUserID, listUUID)
		assert.True(t, IsListAccessDenied(err))
	})
}

func TestAddItem(t *testing.T) {
	t.Run("NormalizesBeforeStorage", func(t *testing.T) {
		fx := newListFixture()
		listUUID := fx.createList(t, testUserID, "Mine")

		resp, err := fx.flow.AddItem(context.Background(), testUserID, listUUID, &dto.AddListItemRequest{
			ItemID: "HTTPS://Example.com/Homes/42/",
		})
		require.NoError(t, err)
		assert.Equal(t, "example.com/homes/42", resp.ItemID)
		assert.False(t, resp.AlreadyMember)
	})

	t.Run("DuplicateAddIsNoOp", func(t *testing.T) {
		fx := newListFixture()
		listUUID := fx.createList(t, testUserID, "Mine")

		_, err := fx.flow.AddItem(context.Background(), testUserID, listUUID, &dto.AddListItemRequest{ItemID: "mls-1"})
		require.NoError(t, err)

		resp, err := fx.flow.AddItem(context.Background(), testUserID, listUUID, &dto.AddListItemRequest{ItemID: "mls-1"})
		require.NoError(t, err)
		assert.True(t, resp.AlreadyMember)
		assert.Len(t, fx.memberships.memberships, 1)
	})

	t.Run("BlankItemID", func(t *testing.T) {
		fx := newListFixture()
		listUUID := fx.createList(t, testUserID, "Mine")
		_, err := fx.flow.AddItem(context.Background(), testUserID, listUUID, &dto.AddListItemRequest{ItemID: "  "})
		assert.True(t, IsItemIDRequired(err))
	})
}

func TestRemoveItem(t *testing.T) {
	fx := newListFixture()
	listUUID := fx.createList(t, testUserID, "Mine")

	_, err := fx.flow.AddItem(context.Background(), testUserID, listUUID, &dto.AddListItemRequest{
		ItemID: "https://example.com/homes/42",
	})
	require.NoError(t, err)

	require.NoError(t, fx.flow.RemoveItem(context.Background(), testUserID, listUUID, "Example.com/Homes/42/"))
	assert.Empty(t, fx.memberships.memberships)
}
