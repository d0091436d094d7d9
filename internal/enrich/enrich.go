// Package enrich drives catalog matching for all common-movie candidates
// in bounded-concurrency batches and assembles the final sorted output.
package enrich

import (
	"context"
	"sort"
	"sync"
	"time"

	"watchmatch/internal/progress"
	"watchmatch/pkg/models"
)

// Resolver turns one candidate into exactly one enriched record. It must
// never fail; unmatched candidates come back as fallback records.
type Resolver interface {
	Resolve(ctx context.Context, cand models.CommonMovie) models.EnrichedMovie
}

type Enricher struct {
	Matcher   Resolver
	BatchSize int
	Hub       *progress.Hub
}

func New(matcher Resolver, batchSize int, hub *progress.Hub) *Enricher {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Enricher{Matcher: matcher, BatchSize: batchSize, Hub: hub}
}

// Enrich resolves every candidate against the catalog, at most BatchSize
// in flight at a time; a batch finishes before the next starts so the
// catalog store is never swamped. Afterwards friend lists are defensively
// re-deduplicated, counts recomputed, sub-2 records dropped, and the rest
// sorted by friend count then rating.
func (e *Enricher) Enrich(ctx context.Context, requestID string, candidates []models.CommonMovie) []models.EnrichedMovie {
	results := make([]models.EnrichedMovie, len(candidates))

	for start := 0; start < len(candidates); start += e.BatchSize {
		end := start + e.BatchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = e.Matcher.Resolve(ctx, candidates[i])
			}(i)
		}
		wg.Wait()

		if e.Hub != nil {
			e.Hub.BroadcastJSON(progress.Event{
				Type:      progress.EventBatch,
				RequestID: requestID,
				Done:      end,
				Total:     len(candidates),
				At:        time.Now(),
			})
		}
	}

	out := make([]models.EnrichedMovie, 0, len(results))
	for _, m := range results {
		m.FriendList = dedupe(m.FriendList)
		m.FriendCount = len(m.FriendList)
		if m.FriendCount < 2 {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FriendCount != out[j].FriendCount {
			return out[i].FriendCount > out[j].FriendCount
		}
		return out[i].VoteAverage > out[j].VoteAverage
	})
	return out
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := list[:0]
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
