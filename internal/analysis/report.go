package analysis

import (
	"time"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

// now is the report clock. Tests replace it to get deterministic timestamps.
var now = func() time.Time { return time.Now().UTC() }

// Assemble classifies every group in the order received and packages the
// findings with run timestamps and the provider identity.
//
// StartedAt is taken before the first classification and FinishedAt after
// the last. Both finding lists are non-nil so an empty run renders as [].
func Assemble(
	groups []models.SecurityGroup,
	attached AttachmentIndex,
	safe CidrSet,
	identity models.ProviderIdentity,
) models.AnalysisReport {
	report := models.AnalysisReport{
		Metadata: models.ReportMetadata{
			StartedAt:     now(),
			CloudProvider: identity,
		},
		SecurityGroups: models.SecurityGroupFindings{
			UnusedGroups: []models.UnusedGroupFinding{},
			UnsafeGroups: []models.UnsafeGroupFinding{},
		},
	}

	for _, g := range groups {
		unused, unsafe := Classify(g, attached, safe)
		if unused != nil {
			report.SecurityGroups.UnusedGroups = append(report.SecurityGroups.UnusedGroups, *unused)
		}
		if unsafe != nil {
			report.SecurityGroups.UnsafeGroups = append(report.SecurityGroups.UnsafeGroups, *unsafe)
		}
	}

	report.Metadata.FinishedAt = now()
	return report
}
