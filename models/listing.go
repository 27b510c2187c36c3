package models

import (
	"time"

	"github.com/leadmap/prospect-api/utils"
)

// Listing represents one property prospect row. The same shape is shared by
// the default listings table and the seven category tables (expired, probate,
// fsbo, frbo, imports, trash, foreclosure); queries select the physical table
// at runtime.
//
// Rows are produced by the external ingestion pipeline and are read-only from
// this service's perspective. InCRM is derived per request and never persisted.
type Listing struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	ListingID   *string `gorm:"size:255;index:idx_listings_listing_id" json:"listing_id"`
	PropertyURL *string `gorm:"size:2048" json:"property_url"`

	Street  *string `gorm:"size:512" json:"street"`
	Unit    *string `gorm:"size:64" json:"unit"`
	City    *string `gorm:"size:255;index:idx_listings_city" json:"city"`
	State   *string `gorm:"size:64;index:idx_listings_state" json:"state"`
	ZipCode *string `gorm:"size:32" json:"zip_code"`

	Beds      *float64 `json:"beds"`
	FullBaths *float64 `json:"full_baths"`
	HalfBaths *float64 `json:"half_baths"`
	Sqft      *float64 `json:"sqft"`
	YearBuilt *int     `json:"year_built"`

	ListPrice     *float64   `json:"list_price"`
	ListPriceMin  *float64   `json:"list_price_min"`
	ListPriceMax  *float64   `json:"list_price_max"`
	LastSalePrice *float64   `gorm:"column:last_sale_amount" json:"last_sale_amount"`
	LastSaleDate  *time.Time `json:"last_sale_date"`

	Status      *string `gorm:"size:64" json:"status"`
	Active      *bool   `gorm:"index:idx_listings_active" json:"active"`
	Description *string `gorm:"type:text" json:"description"`
	MLS         *string `gorm:"column:mls;size:64" json:"mls"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	AgentName  *string `gorm:"size:255" json:"agent_name"`
	AgentEmail *string `gorm:"size:255" json:"agent_email"`
	AgentPhone *string `gorm:"size:64" json:"agent_phone"`
	Phone2     *string `gorm:"column:phone_2;size:64" json:"phone_2"`
	Phone3     *string `gorm:"column:phone_3;size:64" json:"phone_3"`
	Phone4     *string `gorm:"column:phone_4;size:64" json:"phone_4"`
	Phone5     *string `gorm:"column:phone_5;size:64" json:"phone_5"`

	AIScore *float64 `gorm:"column:ai_investment_score" json:"ai_investment_score"`

	CreatedAt     *time.Time `gorm:"index:idx_listings_created_at" json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
	LastScrapedAt *time.Time `json:"last_scraped_at"`

	// Derived per request, never written back.
	InCRM bool `gorm:"-" json:"in_crm"`
}

func (Listing) TableName() string { return "listings" }

// Identifier returns the canonical key for dedup and CRM/list membership:
// listing_id when present, property_url as the fallback. The key is passed
// through utils.NormalizeItemID, matching how contact source IDs and list
// item IDs are stored, so a raw stored URL and its normalized membership key
// compare equal. Empty string means the row cannot participate in save/list
// operations.
func (l *Listing) Identifier() string {
	var raw string
	switch {
	case l.ListingID != nil && *l.ListingID != "":
		raw = *l.ListingID
	case l.PropertyURL != nil && *l.PropertyURL != "":
		raw = *l.PropertyURL
	default:
		return ""
	}
	if id := utils.NormalizeItemID(raw); id != nil {
		return *id
	}
	return ""
}

// ListingFilter represents filter criteria for server-side listing queries.
// The fine-grained predicate filtering happens in memory (prospect package);
// this filter only narrows the initial table read.
type ListingFilter struct {
	ListingID     *string
	City          *string
	State         *string
	Active        *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
