package businessflow

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leadmap/prospect-api/app/dto"
	"github.com/leadmap/prospect-api/models"
	"github.com/leadmap/prospect-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

type dashboardFixture struct {
	listings    *fakeListingRepo
	contacts    *fakeContactRepo
	memberships *fakeMembershipRepo
	flow        DashboardFlow
}

func newDashboardFixture() *dashboardFixture {
	listings := newFakeListingRepo()
	contacts := newFakeContactRepo()
	memberships := newFakeMembershipRepo()
	cfg := DashboardConfig{
		HighValueThreshold: 500_000,
		NetNewWindowDays:   30,
		TableFetchLimit:    100,
		DefaultPageSize:    25,
	}
	return &dashboardFixture{
		listings:    listings,
		contacts:    contacts,
		memberships: memberships,
		flow:        NewDashboardFlow(listings, contacts, memberships, cfg, log.Default()),
	}
}

func (fx *dashboardFixture) saveContact(sourceID string) {
	_, _ = fx.contacts.SaveIgnoreDuplicate(context.Background(), &models.Contact{
		UUID:     uuid.New(),
		UserID:   testUserID,
		Source:   models.ContactSourceListing,
		SourceID: sourceID,
	})
}

func (fx *dashboardFixture) addListItem(listID uint, itemID string) {
	fx.memberships.listOwners[listID] = testUserID
	_, _ = fx.memberships.AddIgnoreDuplicate(context.Background(), &models.ListMembership{
		ListID: listID,
		ItemID: itemID,
	})
}

func TestGetListingsAggregation(t *testing.T) {
	now := utils.UTCNow()
	fx := newDashboardFixture()
	fx.listings.tables["listings"] = []*models.Listing{
		row("a", now.AddDate(0, 0, -1)),
		row("b", now.AddDate(0, 0, -2)),
	}
	fx.listings.tables["expired"] = []*models.Listing{
		row("b", now.AddDate(0, 0, -2)),
		row("c", now.AddDate(0, 0, -3)),
	}

	t.Run("AllCategoryMergesAndDeduplicates", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.TotalMatching)
		assert.Len(t, resp.Listings, 3)
		assert.Equal(t, 3, resp.Counts.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 25, resp.PageSize)
	})

	t.Run("SingleCategoryReadsOneTable", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{Filter: "expired"})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.TotalMatching)
		assert.Equal(t, "filter=expired", resp.CanonicalQuery)
	})

	t.Run("SavedContactsAnnotateInCRM", func(t *testing.T) {
		fx.saveContact("a")
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{})
		require.NoError(t, err)

		flagged := 0
		for _, l := range resp.Listings {
			if l.InCRM {
				flagged++
				assert.Equal(t, "a", *l.ListingID)
			}
		}
		assert.Equal(t, 1, flagged)
	})
}

func TestGetListingsTableFailures(t *testing.T) {
	now := utils.UTCNow()

	t.Run("OneFailingTableContributesNothing", func(t *testing.T) {
		fx := newDashboardFixture()
		fx.listings.tables["listings"] = []*models.Listing{row("a", now)}
		fx.listings.errs["probate"] = errors.New("connection refused")

		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.TotalMatching)
	})

	t.Run("MissingCategoryTableReadsAsEmpty", func(t *testing.T) {
		fx := newDashboardFixture()
		fx.listings.errs["probate"] = errMissingTable

		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{Filter: "probate"})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.TotalMatching)
	})

	t.Run("SingleCategoryHardFailureSurfaces", func(t *testing.T) {
		fx := newDashboardFixture()
		fx.listings.errs["expired"] = errors.New("connection refused")

		_, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{Filter: "expired"})
		require.Error(t, err)
		var be *BusinessError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "CATEGORY_FETCH_FAILED", be.Code)
	})
}

func TestGetListingsViews(t *testing.T) {
	now := utils.UTCNow()
	fx := newDashboardFixture()
	fx.listings.tables["listings"] = []*models.Listing{
		row("fresh", now.AddDate(0, 0, -2)),
		row("in_crm", now.AddDate(0, 0, -1)),
		row("in_list", now.AddDate(0, 0, -1)),
		row("stale", now.AddDate(0, 0, -60)),
	}
	fx.saveContact("in_crm")
	fx.addListItem(1, "in_list")

	t.Run("NetNewExcludesKnownAndStale", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{View: "net_new"})
		require.NoError(t, err)
		require.Equal(t, 1, resp.TotalMatching)
		assert.Equal(t, "fresh", *resp.Listings[0].ListingID)
	})

	t.Run("SavedReturnsOnlyCRMRows", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{View: "saved"})
		require.NoError(t, err)
		require.Equal(t, 1, resp.TotalMatching)
		assert.Equal(t, "in_crm", *resp.Listings[0].ListingID)
		assert.True(t, resp.Listings[0].InCRM)
	})

	t.Run("CountsReportAllThreeViews", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{})
		require.NoError(t, err)
		assert.Equal(t, 4, resp.Counts.Total)
		assert.Equal(t, 1, resp.Counts.NetNew)
		assert.Equal(t, 1, resp.Counts.Saved)
	})
}

func TestGetListingsURLKeyedMembership(t *testing.T) {
	now := utils.UTCNow()
	fx := newDashboardFixture()
	fx.listings.tables["listings"] = []*models.Listing{
		{PropertyURL: strp("https://www.Example.com/homedetails/123/"), CreatedAt: &now},
		row("other", now.AddDate(0, 0, -1)),
	}

	// Save through the contact flow so the stored source ID is the
	// normalized form, while the listing row keeps its raw URL.
	contactFlow := NewContactFlow(fx.contacts)
	_, err := contactFlow.SaveContact(context.Background(), testUserID, &dto.SaveContactRequest{
		PropertyURL: "https://www.Example.com/homedetails/123/",
	})
	require.NoError(t, err)

	t.Run("RawURLRowAnnotatesInCRM", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{})
		require.NoError(t, err)

		flagged := 0
		for _, l := range resp.Listings {
			if l.InCRM {
				flagged++
				assert.Equal(t, "https://www.Example.com/homedetails/123/", *l.PropertyURL)
			}
		}
		assert.Equal(t, 1, flagged)
	})

	t.Run("NetNewExcludesSavedURLRow", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{View: "net_new"})
		require.NoError(t, err)
		require.Equal(t, 1, resp.TotalMatching)
		assert.Equal(t, "other", *resp.Listings[0].ListingID)
	})

	t.Run("SavedViewReturnsURLRow", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{View: "saved"})
		require.NoError(t, err)
		require.Equal(t, 1, resp.TotalMatching)
		assert.True(t, resp.Listings[0].InCRM)
		assert.Equal(t, 1, resp.Counts.Saved)
	})
}

func TestGetListingsSavedAcrossAllTables(t *testing.T) {
	now := utils.UTCNow()
	fx := newDashboardFixture()
	fx.listings.tables["listings"] = []*models.Listing{row("a", now)}
	fx.listings.tables["fsbo"] = []*models.Listing{row("fsbo-1", now.AddDate(0, 0, -1))}
	fx.listings.tables["expired"] = []*models.Listing{row("fsbo-1", now.AddDate(0, 0, -1))}
	fx.saveContact("fsbo-1")

	t.Run("SavedRowHydratesFromItsOwnTable", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{View: "saved"})
		require.NoError(t, err)
		require.Equal(t, 1, resp.TotalMatching)
		assert.Equal(t, "fsbo-1", *resp.Listings[0].ListingID)
		assert.Equal(t, 1, resp.Counts.Saved)
	})

	t.Run("SingleCategoryStillScopesToItsTable", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{Filter: "fsbo", View: "saved"})
		require.NoError(t, err)
		require.Equal(t, 1, resp.TotalMatching)
		assert.Equal(t, "fsbo-1", *resp.Listings[0].ListingID)
	})
}

func TestGetListingsFilters(t *testing.T) {
	now := utils.UTCNow()
	fx := newDashboardFixture()

	expensive := row("expensive", now.AddDate(0, 0, -1))
	expensive.ListPrice = fp(750_000)
	expensive.City = strp("Austin")

	cheap := row("cheap", now.AddDate(0, 0, -1))
	cheap.ListPrice = fp(180_000)
	cheap.City = strp("Dallas")

	fx.listings.tables["listings"] = []*models.Listing{expensive, cheap}

	t.Run("HighValueMetaFilter", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{Meta: []string{"high_value"}})
		require.NoError(t, err)
		require.Equal(t, 1, resp.TotalMatching)
		assert.Equal(t, "expensive", *resp.Listings[0].ListingID)
	})

	t.Run("SearchMatchesCity", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{Search: "dallas"})
		require.NoError(t, err)
		require.Equal(t, 1, resp.TotalMatching)
		assert.Equal(t, "cheap", *resp.Listings[0].ListingID)
	})

	t.Run("ApolloRangeFilter", func(t *testing.T) {
		resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{
			Apollo: `{"price":{"min":100000,"max":200000}}`,
		})
		require.NoError(t, err)
		require.Equal(t, 1, resp.TotalMatching)
		assert.Equal(t, "cheap", *resp.Listings[0].ListingID)
		assert.Equal(t, 1, resp.ActiveFilters)
	})
}

func TestGetListingsValidation(t *testing.T) {
	fx := newDashboardFixture()

	t.Run("EmptyUserID", func(t *testing.T) {
		_, err := fx.flow.GetListings(context.Background(), "", &dto.ListingsRequest{})
		assert.True(t, IsUserIDRequired(err))
	})

	t.Run("NegativePage", func(t *testing.T) {
		_, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{Page: -1})
		assert.True(t, IsInvalidPage(err))
	})

	t.Run("OversizedPageSize", func(t *testing.T) {
		_, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{PageSize: utils.MaxPageSize + 1})
		require.Error(t, err)
		var be *BusinessError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "INVALID_PAGE_SIZE", be.Code)
	})
}

func TestGetListingsPagination(t *testing.T) {
	now := utils.UTCNow()
	fx := newDashboardFixture()
	rows := make([]*models.Listing, 0, 5)
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		rows = append(rows, row(id, now.Add(-time.Duration(i)*time.Hour)))
	}
	fx.listings.tables["listings"] = rows

	resp, err := fx.flow.GetListings(context.Background(), testUserID, &dto.ListingsRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.TotalMatching)
	assert.Equal(t, 2, resp.Page)
	require.Len(t, resp.Listings, 2)
	assert.Equal(t, "c", *resp.Listings[0].ListingID)
	assert.Equal(t, "d", *resp.Listings[1].ListingID)
}

func TestPatchListing(t *testing.T) {
	now := utils.UTCNow()
	fx := newDashboardFixture()
	stored := row("a", now.AddDate(0, 0, -1))
	stored.Status = strp("FOR_SALE")
	stored.AgentName = strp("Pat")
	fx.listings.tables["listings"] = []*models.Listing{stored}

	t.Run("MergesEditOntoStoredRow", func(t *testing.T) {
		patched, err := fx.flow.PatchListing(context.Background(), testUserID, "a", &dto.PatchListingRequest{
			Status:    strp("PENDING"),
			ListPrice: fp(425_000),
		})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", *patched.Status)
		assert.Equal(t, 425_000.0, *patched.ListPrice)
		assert.Equal(t, "Pat", *patched.AgentName)
		assert.NotNil(t, patched.UpdatedAt)
	})

	t.Run("UnknownListing", func(t *testing.T) {
		_, err := fx.flow.PatchListing(context.Background(), testUserID, "missing", &dto.PatchListingRequest{})
		assert.True(t, IsListingNotFound(err))
	})

	t.Run("EmptyIdentifier", func(t *testing.T) {
		_, err := fx.flow.PatchListing(context.Background(), testUserID, "", &dto.PatchListingRequest{})
		assert.True(t, IsIdentifierRequired(err))
	})
}
