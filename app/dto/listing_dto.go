package dto

import (
	"time"

	"github.com/leadmap/prospect-api/models"
)

// ListingsRequest carries the parsed dashboard query. The raw URL parameters
// are decoded by the prospect state codec before this DTO is built.
type ListingsRequest struct {
	Filter   string   `json:"filter" validate:"omitempty,max=32"`
	Meta     []string `json:"meta" validate:"omitempty,dive,max=32"`
	Search   string   `json:"search" validate:"omitempty,max=255"`
	Sort     string   `json:"sort" validate:"omitempty,max=32"`
	Page     int      `json:"page" validate:"omitempty,gte=1"`
	PageSize int      `json:"page_size" validate:"omitempty,gte=1,lte=200"`
	View     string   `json:"view" validate:"omitempty,oneof=total net_new saved"`
	Apollo   string   `json:"apollo" validate:"omitempty"`
}

// ListingsResponse is the dashboard page payload.
type ListingsResponse struct {
	Listings       []*models.Listing `json:"listings"`
	Page           int               `json:"page"`
	PageSize       int               `json:"page_size"`
	TotalMatching  int               `json:"total_matching"`
	Counts         ViewCountsDTO     `json:"counts"`
	ActiveFilters  int               `json:"active_filters"`
	CanonicalQuery string            `json:"canonical_query"`
}

// ViewCountsDTO mirrors the stable per-category view totals.
type ViewCountsDTO struct {
	Total  int `json:"total"`
	NetNew int `json:"net_new"`
	Saved  int `json:"saved"`
}

// CategoryCountsResponse reports per-category table sizes.
type CategoryCountsResponse struct {
	Counts      map[string]int64 `json:"counts"`
	RefreshedAt time.Time        `json:"refreshed_at"`
	FromCache   bool             `json:"from_cache"`
}

// PatchListingRequest carries a detail-view edit to apply optimistically.
type PatchListingRequest struct {
	ListPrice   *float64 `json:"list_price" validate:"omitempty,gte=0"`
	Status      *string  `json:"status" validate:"omitempty,max=64"`
	Description *string  `json:"description" validate:"omitempty,max=10000"`
	AgentName   *string  `json:"agent_name" validate:"omitempty,max=255"`
	AgentEmail  *string  `json:"agent_email" validate:"omitempty,email"`
	AgentPhone  *string  `json:"agent_phone" validate:"omitempty,max=64"`
}

// InsightsResponse is the in-memory analytics summary for the active
// category set.
type InsightsResponse struct {
	TotalListings      int              `json:"total_listings"`
	AveragePrice       float64          `json:"average_price"`
	MinPrice           float64          `json:"min_price"`
	MaxPrice           float64          `json:"max_price"`
	ListingsByCity     map[string]int   `json:"listings_by_city"`
	TopScored          []*models.Listing `json:"top_scored"`
	EnrichedCount      int              `json:"enriched_count"`
	PriceDropCount     int              `json:"price_drop_count"`
	HighValueCount     int              `json:"high_value_count"`
	EnrichmentCoverage float64          `json:"enrichment_coverage"`
}

// ExportResponse carries a generated export document.
type ExportResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
	RowCount    int    `json:"row_count"`
}
