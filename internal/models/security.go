package models

// NoVPC is the VpcId reported for security groups that do not belong to a VPC
// (EC2-Classic groups, or records missing the field).
const NoVPC = "no-vpc"

// ProtocolAll is the IpProtocol value AWS uses for "all protocols, all ports".
const ProtocolAll = "-1"

// SecurityGroup is an immutable snapshot of one security group as listed by
// the provider. VpcID is empty when the provider did not report one.
type SecurityGroup struct {
	ID           string        `json:"group_id"`
	Name         string        `json:"group_name"`
	Description  string        `json:"description"`
	VpcID        string        `json:"vpc_id,omitempty"`
	Region       string        `json:"region"`
	IngressRules []IngressRule `json:"ingress_rules"`
}

// IngressRule is one inbound permission. FromPort and ToPort are nil when the
// protocol is not port-scoped (e.g. ProtocolAll). CIDRs keeps the source order
// reported by the provider.
type IngressRule struct {
	Protocol string   `json:"protocol"`
	FromPort *int32   `json:"from_port,omitempty"`
	ToPort   *int32   `json:"to_port,omitempty"`
	CIDRs    []string `json:"cidrs"`
}

// EffectiveVpcID returns the group's VPC id or NoVPC when none was reported.
func (g SecurityGroup) EffectiveVpcID() string {
	if g.VpcID == "" {
		return NoVPC
	}
	return g.VpcID
}
