package models

import "time"

// Field names in this file follow the established report format
// (GroupId, CidrIp, UnsafePorts, ...) so existing consumers of the JSON and
// YAML output keep working.

// UnsafeIngressEntry is a single ingress source that is not whitelisted.
// One IngressRule with N offending sources yields N entries.
type UnsafeIngressEntry struct {
	IpProtocol string `json:"IpProtocol" yaml:"IpProtocol"`
	FromPort   *int32 `json:"FromPort,omitempty" yaml:"FromPort,omitempty"`
	ToPort     *int32 `json:"ToPort,omitempty" yaml:"ToPort,omitempty"`
	CidrIp     string `json:"CidrIp" yaml:"CidrIp"`
}

// UnusedGroupFinding reports a security group no live resource references.
type UnusedGroupFinding struct {
	GroupId     string `json:"GroupId" yaml:"GroupId"`
	GroupName   string `json:"GroupName" yaml:"GroupName"`
	Description string `json:"Description" yaml:"Description"`
	VpcId       string `json:"VpcId" yaml:"VpcId"`
}

// UnsafeGroupFinding reports a security group with at least one ingress source
// outside the whitelist. UnsafePorts is ordered by rule, then by source.
type UnsafeGroupFinding struct {
	GroupId     string               `json:"GroupId" yaml:"GroupId"`
	GroupName   string               `json:"GroupName" yaml:"GroupName"`
	Description string               `json:"Description" yaml:"Description"`
	UnsafePorts []UnsafeIngressEntry `json:"UnsafePorts" yaml:"UnsafePorts"`
}

// ProviderIdentity identifies the cloud provider and the authenticated
// principal that ran the analysis. Auth is opaque and copied verbatim.
type ProviderIdentity struct {
	Name string `json:"Name" yaml:"Name"`
	Auth string `json:"Auth" yaml:"Auth"`
}

// DegradedCategory records an attachment category whose collection failed.
// Unused-group findings may be over-reported for the listed categories.
type DegradedCategory struct {
	Category string `json:"Category" yaml:"Category"`
	Error    string `json:"Error" yaml:"Error"`
}

// ReportMetadata brackets one analysis run.
type ReportMetadata struct {
	StartedAt          time.Time          `json:"StartedAt" yaml:"StartedAt"`
	FinishedAt         time.Time          `json:"FinishedAt" yaml:"FinishedAt"`
	CloudProvider      ProviderIdentity   `json:"CloudProvider" yaml:"CloudProvider"`
	Region             string             `json:"Region,omitempty" yaml:"Region,omitempty"`
	DegradedCategories []DegradedCategory `json:"DegradedCategories,omitempty" yaml:"DegradedCategories,omitempty"`
}

// SecurityGroupFindings holds both finding lists in input order.
type SecurityGroupFindings struct {
	UnusedGroups []UnusedGroupFinding `json:"UnusedGroups" yaml:"UnusedGroups"`
	UnsafeGroups []UnsafeGroupFinding `json:"UnsafeGroups" yaml:"UnsafeGroups"`
}

// AnalysisReport is the output of one analysis run for one region.
type AnalysisReport struct {
	Metadata       ReportMetadata        `json:"Metadata" yaml:"Metadata"`
	SecurityGroups SecurityGroupFindings `json:"SecurityGroups" yaml:"SecurityGroups"`
}

// Degraded reports whether any attachment category failed during the run.
func (r *AnalysisReport) Degraded() bool {
	return len(r.Metadata.DegradedCategories) > 0
}
