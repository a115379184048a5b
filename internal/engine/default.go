package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/analysis"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/collectors"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/providers/aws/common"
)

// maxConcurrentRegions is the maximum number of regions audited in parallel.
const maxConcurrentRegions = 5

// now is the run clock. Tests replace it to get deterministic timestamps.
var now = func() time.Time { return time.Now().UTC() }

// DefaultEngine is the production implementation of Engine.
type DefaultEngine struct {
	provider  common.AWSClientProvider
	inventory InventoryFactory
	registry  *collectors.Registry
	logger    *zap.Logger
}

// NewDefaultEngine constructs a DefaultEngine. A nil logger is replaced with
// a no-op logger.
func NewDefaultEngine(
	provider common.AWSClientProvider,
	inventory InventoryFactory,
	registry *collectors.Registry,
	logger *zap.Logger,
) *DefaultEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultEngine{
		provider:  provider,
		inventory: inventory,
		registry:  registry,
		logger:    logger,
	}
}

// RunAudit implements Engine.
//
// Flow:
//  1. Load the profile and caller identity. Failure is ErrAuthentication.
//  2. Resolve regions (explicit list or active-region discovery).
//  3. Audit regions in parallel, at most maxConcurrentRegions at once. Any
//     fatal region error cancels the rest and fails the run.
//
// StartedAt on every report is the moment RunAudit began, before any
// collection.
func (e *DefaultEngine) RunAudit(ctx context.Context, opts AuditOptions) ([]models.AnalysisReport, error) {
	startedAt := now()

	profile, err := e.provider.LoadProfile(ctx, opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", analysis.ErrAuthentication, err)
	}
	identity := models.ProviderIdentity{Name: ProviderAWS, Auth: profile.CallerARN}
	e.logger.Info("authenticated",
		zap.String("profile", profile.ProfileName),
		zap.String("account", profile.AccountID),
		zap.String("caller", profile.CallerARN),
	)

	regions, err := e.resolveRegions(ctx, profile, opts.Regions)
	if err != nil {
		return nil, fmt.Errorf("resolve regions for profile %q: %w", profile.ProfileName, err)
	}
	e.logger.Debug("regions resolved", zap.Strings("regions", regions))

	reports := make([]models.AnalysisReport, len(regions))
	sem := make(chan struct{}, maxConcurrentRegions)
	g, gctx := errgroup.WithContext(ctx)

REGIONS:
	for i, region := range regions {
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			break REGIONS
		}

		i, region := i, region
		g.Go(func() error {
			defer func() { <-sem }()

			report, err := e.auditRegion(gctx, profile, region, opts, identity)
			if err != nil {
				return fmt.Errorf("audit region %s: %w", region, err)
			}
			report.Metadata.StartedAt = startedAt
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// auditRegion builds the whitelist and attachment index for one region and
// classifies its security groups.
func (e *DefaultEngine) auditRegion(
	ctx context.Context,
	profile *common.ProfileConfig,
	region string,
	opts AuditOptions,
	identity models.ProviderIdentity,
) (models.AnalysisReport, error) {
	log := e.logger.With(zap.String("region", region))
	inv := e.inventory(e.provider.ConfigForRegion(profile, region))
	safeCollectors, attachCollectors := e.registry.Build(inv, opts.Selection)

	safe, err := analysis.BuildWhitelist(ctx, safeCollectors, opts.ManualWhitelist)
	if err != nil {
		return models.AnalysisReport{}, err
	}
	log.Debug("whitelist built", zap.Int("cidrs", safe.Len()))

	attached, degraded := analysis.BuildAttachmentIndex(ctx, attachCollectors)
	for _, d := range degraded {
		log.Warn("attachment category degraded; its groups may be reported unused",
			zap.String("category", d.Category),
			zap.String("error", d.Error),
		)
	}
	log.Debug("attachment index built", zap.Int("identifiers", attached.Len()))

	groups, err := inv.ListSecurityGroups(ctx)
	if err != nil {
		return models.AnalysisReport{}, err
	}

	report := analysis.Assemble(groups, attached, safe, identity)
	report.Metadata.Region = region
	report.Metadata.DegradedCategories = degraded

	log.Info("region audited",
		zap.Int("groups", len(groups)),
		zap.Int("unused", len(report.SecurityGroups.UnusedGroups)),
		zap.Int("unsafe", len(report.SecurityGroups.UnsafeGroups)),
	)
	return report, nil
}

// resolveRegions returns the explicit region list when provided, otherwise
// calls GetActiveRegions to discover opted-in regions for the profile.
func (e *DefaultEngine) resolveRegions(
	ctx context.Context,
	profile *common.ProfileConfig,
	explicit []string,
) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	return e.provider.GetActiveRegions(ctx, profile)
}
