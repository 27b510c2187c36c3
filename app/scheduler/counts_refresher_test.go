package scheduler

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/leadmap/prospect-api/models"
	"github.com/leadmap/prospect-api/prospect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubListingRepo struct {
	counts map[string]int64
	errs   map[string]error
}

func (r *stubListingRepo) ByTable(context.Context, string, models.ListingFilter, string, int) ([]*models.Listing, error) {
	return nil, nil
}

func (r *stubListingRepo) ByIdentifiers(context.Context, string, []string) ([]*models.Listing, error) {
	return nil, nil
}

func (r *stubListingRepo) CountTable(_ context.Context, table string) (int64, error) {
	if err := r.errs[table]; err != nil {
		return 0, err
	}
	return r.counts[table], nil
}

func TestRefreshOnce(t *testing.T) {
	repo := &stubListingRepo{
		counts: map[string]int64{"listings": 120, "expired": 30},
		errs: map[string]error{
			"probate": errors.New(`relation "probate" does not exist (SQLSTATE 42P01)`),
			"trash":   errors.New("connection refused"),
		},
	}
	r := NewCountsRefresher(repo, nil, log.Default(), time.Minute, time.Minute)

	require.True(t, r.RefreshOnce(context.Background()))

	snap, fromCache, err := r.Counts(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.False(t, fromCache)
	assert.False(t, snap.RefreshedAt.IsZero())

	assert.Equal(t, int64(120), snap.Counts["listings"])
	assert.Equal(t, int64(30), snap.Counts["expired"])

	// missing table counts as zero
	count, ok := snap.Counts["probate"]
	assert.True(t, ok)
	assert.Equal(t, int64(0), count)

	// a hard failure leaves the key out entirely
	_, ok = snap.Counts["trash"]
	assert.False(t, ok)

	// every other table was counted
	for _, table := range prospect.AllTables() {
		if table == "trash" {
			continue
		}
		_, ok := snap.Counts[table]
		assert.True(t, ok, "table %s missing from snapshot", table)
	}
}

func TestRefreshOnceSkipsOverlappingCycle(t *testing.T) {
	r := NewCountsRefresher(&stubListingRepo{}, nil, log.Default(), time.Minute, time.Minute)

	r.refreshing.Store(true)
	assert.False(t, r.RefreshOnce(context.Background()))

	r.refreshing.Store(false)
	assert.True(t, r.RefreshOnce(context.Background()))
}

func TestCountsBeforeFirstCycle(t *testing.T) {
	r := NewCountsRefresher(&stubListingRepo{}, nil, log.Default(), time.Minute, time.Minute)

	snap, fromCache, err := r.Counts(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.False(t, fromCache)
}

func TestRefreshOnceCancelledContext(t *testing.T) {
	r := NewCountsRefresher(&stubListingRepo{counts: map[string]int64{"listings": 5}}, nil, log.Default(), time.Minute, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, r.RefreshOnce(ctx))

	snap, _, err := r.Counts(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}
