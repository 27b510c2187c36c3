// Package scheduler hosts background jobs that keep dashboard data warm.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leadmap/prospect-api/prospect"
	"github.com/leadmap/prospect-api/repository"
	"github.com/leadmap/prospect-api/utils"
	"github.com/redis/go-redis/v9"
)

const countsCacheKey = "prospect:category_counts"

// CountsSnapshot is the result of one refresh cycle: every category table
// counted at roughly the same moment.
type CountsSnapshot struct {
	Counts      map[string]int64 `json:"counts"`
	RefreshedAt time.Time        `json:"refreshed_at"`
}

// CountsRefresher periodically counts every category table in parallel and
// publishes the snapshot to Redis and to an in-process copy. Requests read
// the snapshot instead of issuing eight COUNT(*) queries each.
type CountsRefresher struct {
	listingRepo repository.ListingRepository
	redisClient *redis.Client
	logger      *log.Logger
	interval    time.Duration
	cacheTTL    time.Duration
	fetchTO     time.Duration

	// refreshing guards against overlapping cycles: a tick that fires while
	// a slow cycle is still counting is dropped, not queued.
	refreshing atomic.Bool
	// generation orders completions. A cycle that finishes after a newer one
	// already published must not overwrite the fresher snapshot.
	generation atomic.Uint64

	mu       sync.RWMutex
	snapshot *CountsSnapshot
}

func NewCountsRefresher(
	listingRepo repository.ListingRepository,
	redisClient *redis.Client,
	logger *log.Logger,
	interval time.Duration,
	cacheTTL time.Duration,
) *CountsRefresher {
	if interval <= 0 {
		interval = time.Minute
	}
	if cacheTTL <= 0 {
		cacheTTL = utils.CountsCacheTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CountsRefresher{
		listingRepo: listingRepo,
		redisClient: redisClient,
		logger:      logger,
		interval:    interval,
		cacheTTL:    cacheTTL,
		fetchTO:     utils.ExternalCallTimeout,
	}
}

// Start launches the refresh loop in a background goroutine and returns a
// stop function. The first cycle runs immediately so the dashboard never
// serves zero counts after boot.
func (r *CountsRefresher) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.RefreshOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.RefreshOnce(ctx)
			}
		}
	}()

	return cancel
}

// RefreshOnce runs one counting cycle. Returns false when a cycle was
// already in flight or the completion was superseded by a newer cycle.
func (r *CountsRefresher) RefreshOnce(ctx context.Context) bool {
	if !r.refreshing.CompareAndSwap(false, true) {
		r.logger.Printf("counts refresher: cycle already in flight, skipping tick")
		return false
	}
	defer r.refreshing.Store(false)

	gen := r.generation.Add(1)

	tables := prospect.AllTables()
	counts := make(map[string]int64, len(tables))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, table := range tables {
		wg.Add(1)
		go func(table string) {
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, r.fetchTO)
			defer cancel()

			n, err := r.listingRepo.CountTable(cctx, table)
			if err != nil {
				if repository.IsMissingTable(err) {
					n = 0
				} else {
					r.logger.Printf("counts refresher: count %s failed: %v", table, err)
					return
				}
			}
			mu.Lock()
			counts[table] = n
			mu.Unlock()
		}(table)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return false
	}
	// A later cycle may have started and finished while this one was
	// counting. Its snapshot wins.
	if r.generation.Load() != gen {
		r.logger.Printf("counts refresher: discarding stale cycle %d", gen)
		return false
	}

	snap := &CountsSnapshot{Counts: counts, RefreshedAt: utils.UTCNow()}
	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()

	r.publish(ctx, snap)
	return true
}

func (r *CountsRefresher) publish(ctx context.Context, snap *CountsSnapshot) {
	if r.redisClient == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		r.logger.Printf("counts refresher: marshal snapshot: %v", err)
		return
	}
	cctx, cancel := context.WithTimeout(ctx, r.fetchTO)
	defer cancel()
	if err := r.redisClient.Set(cctx, countsCacheKey, payload, r.cacheTTL).Err(); err != nil {
		r.logger.Printf("counts refresher: cache snapshot: %v", err)
	}
}

// Counts returns the freshest available snapshot: the in-process copy when
// present, otherwise the Redis copy (another instance may have refreshed
// more recently). Returns nil when no cycle has completed anywhere yet.
func (r *CountsRefresher) Counts(ctx context.Context) (*CountsSnapshot, bool, error) {
	r.mu.RLock()
	local := r.snapshot
	r.mu.RUnlock()
	if local != nil {
		return local, false, nil
	}

	if r.redisClient == nil {
		return nil, false, nil
	}
	cctx, cancel := context.WithTimeout(ctx, r.fetchTO)
	defer cancel()
	raw, err := r.redisClient.Get(cctx, countsCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("counts cache read: %w", err)
	}
	var snap CountsSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false, fmt.Errorf("counts cache decode: %w", err)
	}
	return &snap, true, nil
}
