package analysis

import "github.com/pankaj-dahiya-devops/sg-audit/internal/models"

// Classify checks one security group against the attachment index and the
// whitelist. Unused-ness and unsafe-ness are independent; either result is
// nil when its condition does not hold.
//
// A group is unused when neither its id nor its name is referenced. It is
// unsafe when any ingress source CIDR is not a verbatim whitelist member;
// the finding then lists every such source in rule order, then source order.
func Classify(group models.SecurityGroup, attached AttachmentIndex, safe CidrSet) (*models.UnusedGroupFinding, *models.UnsafeGroupFinding) {
	var unused *models.UnusedGroupFinding
	if !attached.Contains(group.ID) && !attached.Contains(group.Name) {
		unused = &models.UnusedGroupFinding{
			GroupId:     group.ID,
			GroupName:   group.Name,
			Description: group.Description,
			VpcId:       group.EffectiveVpcID(),
		}
	}

	var entries []models.UnsafeIngressEntry
	for _, rule := range group.IngressRules {
		for _, cidr := range rule.CIDRs {
			if safe.Contains(cidr) {
				continue
			}
			entries = append(entries, unsafeEntry(rule, cidr))
		}
	}

	var unsafe *models.UnsafeGroupFinding
	if len(entries) > 0 {
		unsafe = &models.UnsafeGroupFinding{
			GroupId:     group.ID,
			GroupName:   group.Name,
			Description: group.Description,
			UnsafePorts: entries,
		}
	}
	return unused, unsafe
}

// unsafeEntry copies the rule's protocol and port range onto one offending
// source. Port pointers are copied so the entry never aliases the snapshot.
func unsafeEntry(rule models.IngressRule, cidr string) models.UnsafeIngressEntry {
	e := models.UnsafeIngressEntry{
		IpProtocol: rule.Protocol,
		CidrIp:     cidr,
	}
	if rule.FromPort != nil {
		from := *rule.FromPort
		e.FromPort = &from
	}
	if rule.ToPort != nil {
		to := *rule.ToPort
		e.ToPort = &to
	}
	return e
}
