// Package inventory reads the region-scoped AWS resources the auditor
// needs: security groups plus everything that can attach to one or define a
// trusted address range. Every listing pages through the full result set.
package inventory

import (
	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/collectors"
)

var _ collectors.Inventory = (*Source)(nil)

// Source is the production inventory for a single region. It satisfies
// collectors.Inventory and additionally lists security groups.
//
// A Source does not cache: each List call issues fresh API requests.
type Source struct {
	clients *invClients
	region  string
}

// NewSource returns a Source wired to production AWS SDK clients for the
// region carried by cfg.
func NewSource(cfg aws.Config) *Source {
	return NewSourceWithFactory(cfg, newDefaultInvClients)
}

// NewSourceWithFactory returns a Source that builds its clients with f,
// allowing tests to inject fake clients.
func NewSourceWithFactory(cfg aws.Config, f invClientFactory) *Source {
	return &Source{clients: f(cfg), region: cfg.Region}
}

// Region returns the region this source reads from.
func (s *Source) Region() string { return s.region }
