package collectors

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// Attachment category names.
const (
	CategoryEC2   = "ec2"
	CategoryRDS   = "rds"
	CategoryELBv2 = "elbv2"
	CategoryENI   = "eni"
)

// eniInUse is the ENI status for an interface attached to a live resource.
const eniInUse = "in-use"

// Attachment collectors report group ids only. Group names are unique per VPC,
// so a name such as "default" would mark same-named groups in every other VPC
// as attached.

// EC2AttachmentCollector reports every group id referenced by an instance.
// The inventory already excludes terminated instances.
type EC2AttachmentCollector struct {
	Source InstanceLister
}

func (c EC2AttachmentCollector) Category() string { return CategoryEC2 }

func (c EC2AttachmentCollector) FetchAttachedGroupIDs(ctx context.Context) ([]string, error) {
	instances, err := c.Source.ListInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	var ids []string
	for _, inst := range instances {
		ids = append(ids, inst.SecurityGroupIDs...)
	}
	return lo.Compact(lo.Uniq(ids)), nil
}

// RDSAttachmentCollector reports every VPC security group id of every DB
// instance. EC2-Classic DB security groups live in their own namespace and
// are not EC2 security groups, so they are skipped.
type RDSAttachmentCollector struct {
	Source DBInstanceLister
}

func (c RDSAttachmentCollector) Category() string { return CategoryRDS }

func (c RDSAttachmentCollector) FetchAttachedGroupIDs(ctx context.Context) ([]string, error) {
	dbs, err := c.Source.ListDBInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list DB instances: %w", err)
	}
	var ids []string
	for _, db := range dbs {
		ids = append(ids, db.VpcSecurityGroupIDs...)
	}
	return lo.Compact(lo.Uniq(ids)), nil
}

// LoadBalancerAttachmentCollector reports every group id referenced by an
// application or network load balancer.
type LoadBalancerAttachmentCollector struct {
	Source LoadBalancerLister
}

func (c LoadBalancerAttachmentCollector) Category() string { return CategoryELBv2 }

func (c LoadBalancerAttachmentCollector) FetchAttachedGroupIDs(ctx context.Context) ([]string, error) {
	lbs, err := c.Source.ListLoadBalancers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list load balancers: %w", err)
	}
	var ids []string
	for _, lb := range lbs {
		ids = append(ids, lb.SecurityGroupIDs...)
	}
	return lo.Compact(lo.Uniq(ids)), nil
}

// NetworkInterfaceAttachmentCollector reports every group id referenced by an
// in-use ENI. Detached ("available") interfaces do not count as live.
type NetworkInterfaceAttachmentCollector struct {
	Source NetworkInterfaceLister
}

func (c NetworkInterfaceAttachmentCollector) Category() string { return CategoryENI }

func (c NetworkInterfaceAttachmentCollector) FetchAttachedGroupIDs(ctx context.Context) ([]string, error) {
	enis, err := c.Source.ListNetworkInterfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list network interfaces: %w", err)
	}
	var ids []string
	for _, eni := range enis {
		if eni.Status != eniInUse {
			continue
		}
		ids = append(ids, eni.SecurityGroupIDs...)
	}
	return lo.Compact(lo.Uniq(ids)), nil
}
