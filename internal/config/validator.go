package config

import (
	"fmt"
	"net/netip"
	"sort"
	"strings"
)

// validFailOn is the set of recognised fail_on values.
var validFailOn = map[string]struct{}{
	FailOnUnused: {},
	FailOnUnsafe: {},
}

// Validate checks cfg for semantic correctness and returns every error found.
// An empty slice means the config is valid.
//
// Checks performed:
//   - version must be 1
//   - whitelist entries must be canonical CIDRs
//   - collector names must be registered in their family
//   - fail_on values must be unused or unsafe
func Validate(cfg *Config, safeRangeNames, attachmentNames []string) []error {
	if cfg == nil {
		return []error{fmt.Errorf("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("version: unsupported value %d; must be 1", cfg.Version))
	}

	for i, entry := range cfg.Whitelist {
		if err := ValidateCIDR(entry); err != nil {
			errs = append(errs, fmt.Errorf("whitelist[%d]: %w", i, err))
		}
	}

	errs = append(errs, unknownNames("collectors.safe_ranges", cfg.Collectors.SafeRanges, safeRangeNames)...)
	errs = append(errs, unknownNames("collectors.attachments", cfg.Collectors.Attachments, attachmentNames)...)

	for _, v := range cfg.FailOn {
		if _, ok := validFailOn[v]; !ok {
			errs = append(errs, fmt.Errorf("fail_on: invalid value %q; valid values: unused, unsafe", v))
		}
	}

	return errs
}

// ValidateCIDR reports whether entry is a CIDR in canonical form. Rules are
// matched by exact string, so 10.0.0.1/16 would never match anything.
func ValidateCIDR(entry string) error {
	p, err := netip.ParsePrefix(entry)
	if err != nil {
		return fmt.Errorf("invalid CIDR %q", entry)
	}
	if p.Masked() != p {
		return fmt.Errorf("CIDR %q has host bits set; use %s", entry, p.Masked())
	}
	return nil
}

func unknownNames(field string, selected map[string]bool, known []string) []error {
	knownSet := make(map[string]struct{}, len(known))
	for _, n := range known {
		knownSet[n] = struct{}{}
	}

	names := make([]string, 0, len(selected))
	for n := range selected {
		names = append(names, n)
	}
	sort.Strings(names)

	var errs []error
	for _, n := range names {
		if _, ok := knownSet[n]; !ok {
			errs = append(errs, fmt.Errorf("%s.%s: unknown collector; valid values: %s", field, n, strings.Join(known, ", ")))
		}
	}
	return errs
}
