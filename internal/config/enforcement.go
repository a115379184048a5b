package config

import (
	"github.com/samber/lo"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

// ShouldFail reports whether any report contains a finding of a kind listed
// in cfg.FailOn.
//
// It returns false when cfg is nil, fail_on is empty, or no report has a
// finding of a configured kind. Unrecognised fail_on values are ignored.
func ShouldFail(reports []models.AnalysisReport, cfg *Config) bool {
	if cfg == nil || len(cfg.FailOn) == 0 {
		return false
	}
	onUnused := lo.Contains(cfg.FailOn, FailOnUnused)
	onUnsafe := lo.Contains(cfg.FailOn, FailOnUnsafe)

	for _, r := range reports {
		if onUnused && len(r.SecurityGroups.UnusedGroups) > 0 {
			return true
		}
		if onUnsafe && len(r.SecurityGroups.UnsafeGroups) > 0 {
			return true
		}
	}
	return false
}
