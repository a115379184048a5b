package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

// BuildWhitelist runs every safe-range collector concurrently and unions
// their output with the manual entries into one CidrSet.
//
// Each collector writes only its own result slot; the union happens after
// all of them complete, so collector order never affects the result.
// The first collector failure cancels the rest and the whole build fails
// with ErrWhitelistCollection wrapping a *CollectorError.
func BuildWhitelist(ctx context.Context, collectors []SafeRangeCollector, manual []string) (CidrSet, error) {
	results := make([][]string, len(collectors), len(collectors)+1)

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range collectors {
		i, c := i, c
		g.Go(func() error {
			ranges, err := c.FetchSafeRanges(gctx)
			if err != nil {
				return &CollectorError{Category: c.Category(), Err: err}
			}
			results[i] = ranges
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CidrSet{}, fmt.Errorf("%w: %w", ErrWhitelistCollection, err)
	}

	return NewCidrSet(append(results, manual)...), nil
}

// BuildAttachmentIndex runs every attachment collector concurrently and
// unions their output. A failing collector contributes nothing and is
// returned as a DegradedCategory; the others are unaffected.
//
// Degraded categories are returned in collector order.
func BuildAttachmentIndex(ctx context.Context, collectors []AttachmentCollector) (AttachmentIndex, []models.DegradedCategory) {
	results := make([][]string, len(collectors))
	errs := make([]error, len(collectors))

	var g errgroup.Group
	for i, c := range collectors {
		i, c := i, c
		g.Go(func() error {
			results[i], errs[i] = c.FetchAttachedGroupIDs(ctx)
			return nil
		})
	}
	_ = g.Wait() // every goroutine returns nil

	var degraded []models.DegradedCategory
	for i, err := range errs {
		if err == nil {
			continue
		}
		results[i] = nil
		degraded = append(degraded, models.DegradedCategory{
			Category: collectors[i].Category(),
			Error:    err.Error(),
		})
	}

	return NewAttachmentIndex(results...), degraded
}
