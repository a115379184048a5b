// Package collectors implements the per-category safe-range and attachment
// collectors consumed by the analysis core, plus the registry that decides
// which categories run.
//
// Collectors only transform inventory listings into identifier sets. They
// never call AWS directly; the Inventory interface is the only data source.
package collectors

import (
	"context"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

// VPCLister lists VPCs in one region.
type VPCLister interface {
	ListVPCs(ctx context.Context) ([]models.AWSVPC, error)
}

// SubnetLister lists subnets in one region.
type SubnetLister interface {
	ListSubnets(ctx context.Context) ([]models.AWSSubnet, error)
}

// InstanceLister lists non-terminated EC2 instances in one region.
type InstanceLister interface {
	ListInstances(ctx context.Context) ([]models.AWSEC2Instance, error)
}

// ElasticIPLister lists allocated elastic addresses in one region.
type ElasticIPLister interface {
	ListElasticIPs(ctx context.Context) ([]models.AWSElasticIP, error)
}

// DBInstanceLister lists RDS instances in one region.
type DBInstanceLister interface {
	ListDBInstances(ctx context.Context) ([]models.AWSRDSInstance, error)
}

// LoadBalancerLister lists ELBv2 load balancers in one region.
type LoadBalancerLister interface {
	ListLoadBalancers(ctx context.Context) ([]models.AWSLoadBalancer, error)
}

// NetworkInterfaceLister lists ENIs in one region.
type NetworkInterfaceLister interface {
	ListNetworkInterfaces(ctx context.Context) ([]models.AWSNetworkInterfaceAttachment, error)
}

// Inventory is the full read-only data source for one region.
// inventory.Source is the production implementation.
type Inventory interface {
	VPCLister
	SubnetLister
	InstanceLister
	ElasticIPLister
	DBInstanceLister
	LoadBalancerLister
	NetworkInterfaceLister
}
