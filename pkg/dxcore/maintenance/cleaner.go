// Package maintenance covers the housekeeping runs on assessment
// history: retention pruning and replaying stored inputs after the
// keyword tables change.
package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

// RebuildFunc recomputes one record from its stored input. Returning
// ok=false keeps the stored record as is.
type RebuildFunc func(ctx context.Context, rec store.Assessment) (store.Assessment, bool, error)

// Cleaner runs maintenance against one store.
type Cleaner struct {
	Store     store.Store
	Retention time.Duration
	Rebuild   RebuildFunc
}

// Result summarizes one maintenance run.
type Result struct {
	Scanned int
	Updated int
	Deleted int64
	Errors  int
}

// Prune removes assessments older than the retention window, measured
// back from now.
func (c *Cleaner) Prune(ctx context.Context, now time.Time) (Result, error) {
	var res Result
	if c.Store == nil {
		return res, errors.New("cleaner: no store configured")
	}
	if c.Retention <= 0 {
		return res, errors.New("cleaner: retention must be positive")
	}

	deleted, err := c.Store.DeleteAssessmentsBefore(ctx, now.Add(-c.Retention))
	if err != nil {
		return res, err
	}
	res.Deleted = deleted
	return res, nil
}

// Reassess replays matching records through the rebuild hook and
// writes back the ones that changed. Identity and creation time
// always survive the rewrite.
func (c *Cleaner) Reassess(ctx context.Context, q store.Query) (Result, error) {
	var res Result
	if c.Store == nil || c.Rebuild == nil {
		return res, errors.New("cleaner: invalid configuration")
	}

	recs, err := c.Store.ListAssessments(ctx, q)
	if err != nil {
		return res, err
	}

	for _, rec := range recs {
		res.Scanned++

		updated, changed, err := c.Rebuild(ctx, rec)
		if err != nil {
			res.Errors++
			continue
		}
		if !changed {
			continue
		}

		updated.ID = rec.ID
		updated.CreatedAt = rec.CreatedAt
		if err := c.Store.UpsertAssessment(ctx, updated); err != nil {
			res.Errors++
			continue
		}
		res.Updated++
	}
	return res, nil
}
