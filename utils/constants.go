package utils

import (
	"time"
)

// Dashboard defaults
const (
	// DefaultPageSize is the number of listings per dashboard page
	DefaultPageSize = 50

	// MaxPageSize caps a client-requested page size
	MaxPageSize = 200

	// TableFetchLimit bounds each per-table read during the "all"
	// aggregation, since that view has no server-side pagination
	TableFetchLimit = 5000

	// NetNewWindowDays is the recency window for the net-new view (30 days)
	NetNewWindowDays = 30

	// HighValueThreshold is the default list-price floor for the
	// high_value meta filter
	HighValueThreshold = 500_000
)

// External call bounds
const (
	// ExternalCallTimeout bounds every external call (cache, counts)
	ExternalCallTimeout = 5 * time.Second

	// CountsCacheTTL is how long cached per-category counts stay fresh
	CountsCacheTTL = 5 * time.Minute
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
