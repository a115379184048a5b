package engine

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/collectors"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

// ProviderAWS is the cloud provider name stamped on every report. Existing
// report consumers expect the lower-case form.
const ProviderAWS = "aws"

// AuditOptions configures a single audit run.
// It is the sole input to Engine.RunAudit.
type AuditOptions struct {
	// Profile is the named AWS profile to use. Empty means the default profile.
	Profile string

	// Regions is an explicit list of AWS regions to audit.
	// When empty the engine discovers and iterates all active regions.
	Regions []string

	// ManualWhitelist holds operator-supplied CIDRs. They carry the same
	// weight as discovered ranges.
	ManualWhitelist []string

	// Selection enables or disables collector categories by name.
	Selection collectors.Selection
}

// Engine is the central orchestration interface. It resolves credentials and
// regions, builds the whitelist and attachment index per region, and returns
// one AnalysisReport per audited region in region order.
//
// Engine must not call the AWS SDK directly; it delegates to the provider and
// inventory interfaces.
type Engine interface {
	RunAudit(ctx context.Context, opts AuditOptions) ([]models.AnalysisReport, error)
}

// RegionInventory is everything the engine reads from one region.
type RegionInventory interface {
	collectors.Inventory
	ListSecurityGroups(ctx context.Context) ([]models.SecurityGroup, error)
}

// InventoryFactory builds a RegionInventory from a region-scoped config.
// Production code passes a wrapper around inventory.NewSource.
type InventoryFactory func(cfg aws.Config) RegionInventory
