package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

// ANSI color codes (used when Colored=true).
const (
	ansiReset     = "\033[0m"
	ansiBoldWhite = "\033[1;37m"
	ansiCyan      = "\033[0;96m"
	ansiYellow    = "\033[0;33m"
	ansiLightRed  = "\033[0;91m"
)

// TableOptions controls how RenderTable decorates its output.
type TableOptions struct {
	// Colored wraps section titles and status lines with ANSI codes.
	// Default false (CI-safe).
	Colored bool
}

// Column display widths.
const (
	wGroupID   = 22
	wGroupName = 32
	wVpc       = 22
	wProtocol  = 8
	wPorts     = 12
)

func paint(code, s string, colored bool) string {
	if !colored {
		return s
	}
	return code + s + ansiReset
}

func infoLine(w io.Writer, msg string, colored bool) {
	fmt.Fprintln(w, paint(ansiCyan, "INFO: "+msg, colored))
}

func warningLine(w io.Writer, msg string, colored bool) {
	fmt.Fprintln(w, paint(ansiYellow, "WARNING: "+msg, colored))
}

func alertLine(w io.Writer, msg string, colored bool) {
	fmt.Fprintln(w, paint(ansiLightRed, "ALERT: "+msg, colored))
}

func section(w io.Writer, title string, colored bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, paint(ansiBoldWhite, title, colored))
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
}

// truncateField shortens s to at most max bytes for ID/label columns.
func truncateField(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// PortRange renders an ingress entry's port span: "all" for all-traffic
// rules or missing ports, a single port when both ends match, else "from-to".
func PortRange(protocol string, from, to *int32) string {
	if protocol == models.ProtocolAll || from == nil || to == nil {
		return "all"
	}
	if *from == -1 && *to == -1 {
		return "all"
	}
	if *from == *to {
		return fmt.Sprintf("%d", *from)
	}
	return fmt.Sprintf("%d-%d", *from, *to)
}

// ProtocolLabel renders "-1" as "all" and everything else unchanged.
func ProtocolLabel(protocol string) string {
	if protocol == models.ProtocolAll {
		return "all"
	}
	return protocol
}

// RenderTable writes a human-readable report for every region to w.
//
// Each report has a header, an unused-groups section and an unsafe-groups
// section, each closed by an INFO, WARNING or ALERT summary line.
func RenderTable(w io.Writer, reports []models.AnalysisReport, opts TableOptions) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No regions audited.")
		return
	}
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderReport(w, r, opts.Colored)
	}
}

func renderReport(w io.Writer, r models.AnalysisReport, colored bool) {
	md := r.Metadata
	title := fmt.Sprintf("Security group audit: %s", md.CloudProvider.Name)
	if md.Region != "" {
		title += " " + md.Region
	}
	fmt.Fprintln(w, paint(ansiBoldWhite, title, colored))
	fmt.Fprintf(w, "Caller:   %s\n", md.CloudProvider.Auth)
	fmt.Fprintf(w, "Started:  %s\n", md.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Finished: %s\n", md.FinishedAt.Format(time.RFC3339))
	for _, d := range md.DegradedCategories {
		warningLine(w, fmt.Sprintf("attachment category %q could not be collected (%s); groups it uses may be reported as unused", d.Category, d.Error), colored)
	}

	renderUnused(w, r.SecurityGroups.UnusedGroups, colored)
	renderUnsafe(w, r.SecurityGroups.UnsafeGroups, colored)
}

func renderUnused(w io.Writer, groups []models.UnusedGroupFinding, colored bool) {
	section(w, "1. UNUSED SECURITY GROUPS", colored)
	if len(groups) == 0 {
		infoLine(w, "All security groups are attached and being used", colored)
		return
	}

	header := fmt.Sprintf("%-*s  %-*s  %-*s  %s", wGroupID, "GROUP ID", wGroupName, "GROUP NAME", wVpc, "VPC", "DESCRIPTION")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))
	for _, g := range groups {
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n",
			wGroupID, truncateField(g.GroupId, wGroupID),
			wGroupName, truncateField(g.GroupName, wGroupName),
			wVpc, truncateField(g.VpcId, wVpc),
			g.Description,
		)
	}
	fmt.Fprintln(w)
	warningLine(w, fmt.Sprintf("There are %d security groups not being used", len(groups)), colored)
}

func renderUnsafe(w io.Writer, groups []models.UnsafeGroupFinding, colored bool) {
	section(w, "2. SECURITY GROUPS WITH UNSAFE INGRESS RULES", colored)
	if len(groups) == 0 {
		infoLine(w, "No security group allows ingress from outside the whitelist", colored)
		return
	}

	for _, g := range groups {
		fmt.Fprintf(w, "\n%s   %s\n", paint(ansiYellow, g.GroupId, colored), g.GroupName)
		header := fmt.Sprintf("  %-*s  %-*s  %s", wProtocol, "PROTOCOL", wPorts, "PORTS", "SOURCE")
		fmt.Fprintln(w, header)
		for _, e := range g.UnsafePorts {
			fmt.Fprintf(w, "  %-*s  %-*s  %s\n",
				wProtocol, ProtocolLabel(e.IpProtocol),
				wPorts, PortRange(e.IpProtocol, e.FromPort, e.ToPort),
				e.CidrIp,
			)
		}
	}
	fmt.Fprintln(w)
	alertLine(w, fmt.Sprintf("There are %d security groups with unsafe ingress rules", len(groups)), colored)
}
