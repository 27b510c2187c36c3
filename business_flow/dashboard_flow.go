package businessflow

import (
	"context"
	"log"
	"strconv"
	"sync"

	"github.com/leadmap/prospect-api/app/dto"
	"github.com/leadmap/prospect-api/models"
	"github.com/leadmap/prospect-api/prospect"
	"github.com/leadmap/prospect-api/repository"
	"github.com/leadmap/prospect-api/utils"
)

// DashboardFlow runs the listing pipeline: resolve category, fetch (fanning
// out across every table for "all"), derive views, apply predicate filters,
// sort, and paginate.
type DashboardFlow interface {
	GetListings(ctx context.Context, userID string, req *dto.ListingsRequest) (*dto.ListingsResponse, error)
	// FilteredListings returns the fully filtered and sorted record set
	// without pagination. Export and insights build on it.
	FilteredListings(ctx context.Context, userID string, req *dto.ListingsRequest) ([]*models.Listing, prospect.State, error)
	PatchListing(ctx context.Context, userID, listingID string, req *dto.PatchListingRequest) (*models.Listing, error)
}

// DashboardConfig carries the tunable pipeline knobs.
type DashboardConfig struct {
	HighValueThreshold float64
	NetNewWindowDays   int
	TableFetchLimit    int
	DefaultPageSize    int
}

// DefaultDashboardConfig mirrors the observed production configuration.
func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		HighValueThreshold: utils.HighValueThreshold,
		NetNewWindowDays:   utils.NetNewWindowDays,
		TableFetchLimit:    utils.TableFetchLimit,
		DefaultPageSize:    utils.DefaultPageSize,
	}
}

type DashboardFlowImpl struct {
	listingRepo    repository.ListingRepository
	contactRepo    repository.ContactRepository
	membershipRepo repository.ListMembershipRepository
	engine         *prospect.Engine
	cfg            DashboardConfig
	logger         *log.Logger
}

func NewDashboardFlow(
	listingRepo repository.ListingRepository,
	contactRepo repository.ContactRepository,
	membershipRepo repository.ListMembershipRepository,
	cfg DashboardConfig,
	logger *log.Logger,
) DashboardFlow {
	if cfg.NetNewWindowDays <= 0 {
		cfg.NetNewWindowDays = utils.NetNewWindowDays
	}
	if cfg.TableFetchLimit <= 0 {
		cfg.TableFetchLimit = utils.TableFetchLimit
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = utils.DefaultPageSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &DashboardFlowImpl{
		listingRepo:    listingRepo,
		contactRepo:    contactRepo,
		membershipRepo: membershipRepo,
		engine:         prospect.NewEngine(cfg.HighValueThreshold),
		cfg:            cfg,
		logger:         logger,
	}
}

// StateFromRequest rebuilds the dashboard state from a parsed request DTO.
func StateFromRequest(req *dto.ListingsRequest) prospect.State {
	state := prospect.NewState()
	if req.Filter != "" {
		state.Filter.Set(prospect.Category(req.Filter), true)
	}
	for _, m := range req.Meta {
		state.Filter.Set(prospect.Category(m), true)
	}
	state.Search = req.Search
	if prospect.KnownSort(req.Sort) {
		state.Sort = req.Sort
	}
	if req.Page > 0 {
		state.Page = req.Page
	}
	state.Apollo = prospect.DecodeFilterMap(req.Apollo)
	return state
}

// pipelineResult is the settled output of one run of the listing pipeline.
type pipelineResult struct {
	state    prospect.State
	counts   prospect.ViewCounts
	filtered []*models.Listing
}

func (f *DashboardFlowImpl) GetListings(ctx context.Context, userID string, req *dto.ListingsRequest) (*dto.ListingsResponse, error) {
	if req.Page < 0 {
		return nil, NewBusinessError("INVALID_PAGE", "Page must be at least 1", ErrInvalidPage)
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = f.cfg.DefaultPageSize
	}
	if pageSize > utils.MaxPageSize {
		return nil, NewBusinessError("INVALID_PAGE_SIZE", "Page size is too large", ErrInvalidPageSize)
	}

	res, err := f.run(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	page := prospect.Paginate(res.filtered, res.state.Page, pageSize)

	return &dto.ListingsResponse{
		Listings:       page,
		Page:           res.state.Page,
		PageSize:       pageSize,
		TotalMatching:  len(res.filtered),
		Counts:         ToViewCountsDTO(res.counts),
		ActiveFilters:  res.state.Apollo.ActiveCount(),
		CanonicalQuery: res.state.Encode().Encode(),
	}, nil
}

// FilteredListings returns the filtered, sorted record set without
// pagination.
func (f *DashboardFlowImpl) FilteredListings(ctx context.Context, userID string, req *dto.ListingsRequest) ([]*models.Listing, prospect.State, error) {
	res, err := f.run(ctx, userID, req)
	if err != nil {
		return nil, prospect.State{}, err
	}
	return res.filtered, res.state, nil
}

// run executes the pipeline: resolve -> fetch -> derive view -> filter ->
// sort.
func (f *DashboardFlowImpl) run(ctx context.Context, userID string, req *dto.ListingsRequest) (*pipelineResult, error) {
	if userID == "" {
		return nil, NewBusinessError("USER_ID_REQUIRED", "User identifier is required", ErrUserIDRequired)
	}

	state := StateFromRequest(req)
	primary := state.Filter.Primary()

	// CRM and list membership sets load before the listing fetch so the
	// in_crm annotation and net-new exclusion see a committed snapshot.
	crmIDs, listIDs, err := f.membershipSets(ctx, userID)
	if err != nil {
		return nil, err
	}

	var records []*models.Listing
	if primary == prospect.CategoryAll {
		records, err = f.fetchAll(ctx)
	} else {
		records, err = f.fetchCategory(ctx, primary)
	}
	if err != nil {
		return nil, err
	}
	annotateInCRM(records, crmIDs)

	savedRecords, err := f.fetchSaved(ctx, primary, crmIDs)
	if err != nil {
		return nil, err
	}
	annotateInCRM(savedRecords, crmIDs)

	now := utils.UTCNow()
	counts := prospect.Counts(records, savedRecords, crmIDs, listIDs, f.cfg.NetNewWindowDays, now)

	var viewRecords []*models.Listing
	switch prospect.ParseView(req.View) {
	case prospect.ViewNetNew:
		viewRecords = prospect.NetNew(records, crmIDs, listIDs, f.cfg.NetNewWindowDays, now)
	case prospect.ViewSaved:
		viewRecords = prospect.Saved(savedRecords, prospect.Identifiers(records))
	default:
		viewRecords = prospect.Total(records)
	}

	filters := f.effectiveFilters(state)
	filtered := f.engine.Apply(viewRecords, filters)
	prospect.SortListings(filtered, state.Sort)

	return &pipelineResult{state: state, counts: counts, filtered: filtered}, nil
}

// effectiveFilters combines the apollo map with the predicates implied by
// the active meta tokens and the free-text search.
func (f *DashboardFlowImpl) effectiveFilters(state prospect.State) prospect.FilterMap {
	filters := state.Apollo.Clone()
	if state.Search != "" {
		filters.SetString(prospect.KeyKeyword, state.Search)
	}
	for _, meta := range state.Filter.Meta() {
		switch meta {
		case prospect.CategoryHighValue:
			filters.SetString(prospect.KeyHighValue, "1")
		case prospect.CategoryPriceDrop:
			filters.SetString(prospect.KeyPriceDrop, "1")
		case prospect.CategoryNewListings:
			filters.SetString(prospect.KeyNewDays, strconv.Itoa(f.cfg.NetNewWindowDays))
		}
	}
	return filters
}

// fetchCategory issues one scoped read against the resolved table, newest
// first. A missing table reads as empty (the ingestion pipeline creates
// category tables lazily); any other failure surfaces to the caller.
func (f *DashboardFlowImpl) fetchCategory(ctx context.Context, c prospect.Category) ([]*models.Listing, error) {
	table := prospect.TableFor(c)
	rows, err := f.listingRepo.ByTable(ctx, table, models.ListingFilter{}, "created_at DESC", f.cfg.TableFetchLimit)
	if err != nil {
		if repository.IsMissingTable(err) {
			return []*models.Listing{}, nil
		}
		return nil, NewBusinessErrorf("CATEGORY_FETCH_FAILED", "Failed to fetch %s listings", err, c)
	}
	return rows, nil
}

// fetchAll fans out one read per category table, fanning results back in
// once every read has settled. A single table failing is logged and
// contributes an empty slice; the merged set is deduplicated by identifier
// (first occurrence wins) and re-sorted by creation time, since parallel
// completion order does not preserve the global ordering.
func (f *DashboardFlowImpl) fetchAll(ctx context.Context) ([]*models.Listing, error) {
	tables := prospect.AllTables()
	results := make([][]*models.Listing, len(tables))

	var wg sync.WaitGroup
	for i, table := range tables {
		wg.Add(1)
		go func(i int, table string) {
			defer wg.Done()
			rows, err := f.listingRepo.ByTable(ctx, table, models.ListingFilter{}, "created_at DESC", f.cfg.TableFetchLimit)
			if err != nil {
				if !repository.IsMissingTable(err) {
					f.logger.Printf("aggregation: table %s fetch failed: %v", table, err)
				}
				return
			}
			results[i] = rows
		}(i, table)
	}
	wg.Wait()

	merged := make([]*models.Listing, 0)
	for _, rows := range results {
		merged = append(merged, rows...)
	}
	merged = prospect.Dedup(merged)
	prospect.SortListings(merged, prospect.SortDateNew)
	return merged, nil
}

// fetchSaved hydrates the user's saved contacts against the primary table,
// or against every category table when the primary is "all", since the "all"
// identifier set spans all of them. The saved view itself intersects these
// rows with the category identifier set, so rows saved from other categories
// fall out naturally.
func (f *DashboardFlowImpl) fetchSaved(ctx context.Context, primary prospect.Category, crmIDs prospect.IDSet) ([]*models.Listing, error) {
	if len(crmIDs) == 0 {
		return []*models.Listing{}, nil
	}
	ids := make([]string, 0, len(crmIDs))
	for id := range crmIDs {
		ids = append(ids, id)
	}

	if primary != prospect.CategoryAll {
		rows, err := f.listingRepo.ByIdentifiers(ctx, prospect.TableFor(primary), ids)
		if err != nil {
			if repository.IsMissingTable(err) {
				return []*models.Listing{}, nil
			}
			return nil, NewBusinessError("SAVED_FETCH_FAILED", "Failed to fetch saved listings", err)
		}
		return rows, nil
	}

	tables := prospect.AllTables()
	results := make([][]*models.Listing, len(tables))

	var wg sync.WaitGroup
	for i, table := range tables {
		wg.Add(1)
		go func(i int, table string) {
			defer wg.Done()
			rows, err := f.listingRepo.ByIdentifiers(ctx, table, ids)
			if err != nil {
				if !repository.IsMissingTable(err) {
					f.logger.Printf("saved hydration: table %s fetch failed: %v", table, err)
				}
				return
			}
			results[i] = rows
		}(i, table)
	}
	wg.Wait()

	merged := make([]*models.Listing, 0)
	for _, rows := range results {
		merged = append(merged, rows...)
	}
	return prospect.Dedup(merged), nil
}

func (f *DashboardFlowImpl) membershipSets(ctx context.Context, userID string) (crmIDs, listIDs prospect.IDSet, err error) {
	sourceIDs, err := f.contactRepo.ListSourceIDs(ctx, userID, models.ContactSourceListing)
	if err != nil {
		return nil, nil, NewBusinessError("CRM_FETCH_FAILED", "Failed to fetch CRM contacts", err)
	}
	itemIDs, err := f.membershipRepo.ListItemIDsByUser(ctx, userID)
	if err != nil {
		return nil, nil, NewBusinessError("LIST_FETCH_FAILED", "Failed to fetch list memberships", err)
	}
	return prospect.NewIDSet(sourceIDs...), prospect.NewIDSet(itemIDs...), nil
}

func annotateInCRM(records []*models.Listing, crmIDs prospect.IDSet) {
	for _, l := range records {
		l.InCRM = crmIDs.Has(l.Identifier())
	}
}

// PatchListing applies a detail-view edit on top of the stored row and
// returns the merged record. The service never writes listing rows; the
// caller replaces the record in its local collection.
func (f *DashboardFlowImpl) PatchListing(ctx context.Context, userID, listingID string, req *dto.PatchListingRequest) (*models.Listing, error) {
	if userID == "" {
		return nil, NewBusinessError("USER_ID_REQUIRED", "User identifier is required", ErrUserIDRequired)
	}
	if listingID == "" {
		return nil, NewBusinessError("IDENTIFIER_REQUIRED", "Listing identifier is required", ErrIdentifierRequired)
	}

	rows, err := f.listingRepo.ByTable(ctx, prospect.DefaultTable, models.ListingFilter{ListingID: &listingID}, "", 1)
	if err != nil {
		return nil, NewBusinessError("LISTING_FETCH_FAILED", "Failed to fetch listing", err)
	}
	if len(rows) == 0 {
		return nil, NewBusinessError("LISTING_NOT_FOUND", "Listing not found", ErrListingNotFound)
	}

	patched := rows[0]
	if req.ListPrice != nil {
		patched.ListPrice = req.ListPrice
	}
	if req.Status != nil {
		patched.Status = req.Status
	}
	if req.Description != nil {
		patched.Description = req.Description
	}
	if req.AgentName != nil {
		patched.AgentName = req.AgentName
	}
	if req.AgentEmail != nil {
		patched.AgentEmail = req.AgentEmail
	}
	if req.AgentPhone != nil {
		patched.AgentPhone = req.AgentPhone
	}
	patched.UpdatedAt = utils.UTCNowPtr()
	return patched, nil
}
