// Package analysis is the security-group analysis core. It builds the CIDR
// whitelist and the attachment index from pluggable collectors, classifies
// every security group against both, and assembles the report.
//
// Nothing in this package talks to AWS or renders output. Collectors are the
// only latency-bearing dependency and are supplied by the caller.
package analysis

import "context"

// SafeRangeCollector produces the CIDR ranges considered safe for one
// resource category (VPC blocks, subnet blocks, instance addresses, ...).
//
// Implementations must be safe to call concurrently with other collectors and
// must not retain or mutate the returned slice after returning it.
type SafeRangeCollector interface {
	// Category returns the stable category name (e.g. "vpc").
	Category() string

	// FetchSafeRanges returns the CIDR strings contributed by this category.
	// Duplicates are allowed; the whitelist builder collapses them.
	FetchSafeRanges(ctx context.Context) ([]string, error)
}

// AttachmentCollector produces the identifiers (group ids and/or names) of
// every security group referenced by one resource category.
type AttachmentCollector interface {
	// Category returns the stable category name (e.g. "ec2").
	Category() string

	// FetchAttachedGroupIDs returns the referenced group identifiers.
	FetchAttachedGroupIDs(ctx context.Context) ([]string, error)
}
