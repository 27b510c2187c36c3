package prospect

import (
	"time"

	"github.com/leadmap/prospect-api/models"
)

func strp(s string) *string    { return &s }
func fp(f float64) *float64    { return &f }
func bp(b bool) *bool          { return &b }
func tp(t time.Time) *time.Time { return &t }

// listing builds a minimal record with a listing_id and creation time.
func listing(id string, created time.Time) *models.Listing {
	return &models.Listing{
		ListingID: strp(id),
		CreatedAt: tp(created),
	}
}
