package collectors

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/analysis"
)

// SafeRangeFactory builds a safe-range collector bound to one region's
// inventory.
type SafeRangeFactory func(inv Inventory) analysis.SafeRangeCollector

// AttachmentFactory builds an attachment collector bound to one region's
// inventory.
type AttachmentFactory func(inv Inventory) analysis.AttachmentCollector

// Selection enables or disables categories by name. A category missing from
// the map is enabled; only an explicit false disables it.
type Selection struct {
	SafeRanges  map[string]bool
	Attachments map[string]bool
}

func enabled(m map[string]bool, name string) bool {
	on, ok := m[name]
	return !ok || on
}

type namedSafeRange struct {
	name    string
	factory SafeRangeFactory
}

type namedAttachment struct {
	name    string
	factory AttachmentFactory
}

// Registry is an ordered, in-memory set of collector constructors.
// Collectors are built in registration order. Register panics on duplicate
// names within a family to catch wiring mistakes at startup.
type Registry struct {
	safeRanges  []namedSafeRange
	attachments []namedAttachment
	safeIndex   map[string]struct{}
	attachIndex map[string]struct{}
}

// NewRegistry returns an empty registry ready for registration.
func NewRegistry() *Registry {
	return &Registry{
		safeIndex:   make(map[string]struct{}),
		attachIndex: make(map[string]struct{}),
	}
}

// Default returns a registry holding every built-in category.
func Default() *Registry {
	r := NewRegistry()
	r.RegisterSafeRange(CategoryVPC, func(inv Inventory) analysis.SafeRangeCollector {
		return VPCRangeCollector{Source: inv}
	})
	r.RegisterSafeRange(CategorySubnet, func(inv Inventory) analysis.SafeRangeCollector {
		return SubnetRangeCollector{Source: inv}
	})
	r.RegisterSafeRange(CategoryInstance, func(inv Inventory) analysis.SafeRangeCollector {
		return InstanceAddressCollector{Source: inv}
	})
	r.RegisterSafeRange(CategoryEIP, func(inv Inventory) analysis.SafeRangeCollector {
		return ElasticIPRangeCollector{Source: inv}
	})

	r.RegisterAttachment(CategoryEC2, func(inv Inventory) analysis.AttachmentCollector {
		return EC2AttachmentCollector{Source: inv}
	})
	r.RegisterAttachment(CategoryRDS, func(inv Inventory) analysis.AttachmentCollector {
		return RDSAttachmentCollector{Source: inv}
	})
	r.RegisterAttachment(CategoryELBv2, func(inv Inventory) analysis.AttachmentCollector {
		return LoadBalancerAttachmentCollector{Source: inv}
	})
	r.RegisterAttachment(CategoryENI, func(inv Inventory) analysis.AttachmentCollector {
		return NetworkInterfaceAttachmentCollector{Source: inv}
	})
	return r
}

// RegisterSafeRange adds a safe-range category. Panics if name is taken.
func (r *Registry) RegisterSafeRange(name string, f SafeRangeFactory) {
	if _, exists := r.safeIndex[name]; exists {
		panic(fmt.Sprintf("duplicate safe-range collector: %q", name))
	}
	r.safeRanges = append(r.safeRanges, namedSafeRange{name: name, factory: f})
	r.safeIndex[name] = struct{}{}
}

// RegisterAttachment adds an attachment category. Panics if name is taken.
func (r *Registry) RegisterAttachment(name string, f AttachmentFactory) {
	if _, exists := r.attachIndex[name]; exists {
		panic(fmt.Sprintf("duplicate attachment collector: %q", name))
	}
	r.attachments = append(r.attachments, namedAttachment{name: name, factory: f})
	r.attachIndex[name] = struct{}{}
}

// SafeRangeNames returns the registered safe-range categories in order.
func (r *Registry) SafeRangeNames() []string {
	return lo.Map(r.safeRanges, func(n namedSafeRange, _ int) string { return n.name })
}

// AttachmentNames returns the registered attachment categories in order.
func (r *Registry) AttachmentNames() []string {
	return lo.Map(r.attachments, func(n namedAttachment, _ int) string { return n.name })
}

// Build instantiates every enabled collector against inv.
func (r *Registry) Build(inv Inventory, sel Selection) ([]analysis.SafeRangeCollector, []analysis.AttachmentCollector) {
	var safe []analysis.SafeRangeCollector
	for _, n := range r.safeRanges {
		if enabled(sel.SafeRanges, n.name) {
			safe = append(safe, n.factory(inv))
		}
	}
	var attach []analysis.AttachmentCollector
	for _, n := range r.attachments {
		if enabled(sel.Attachments, n.name) {
			attach = append(attach, n.factory(inv))
		}
	}
	return safe, attach
}
