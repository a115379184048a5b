package collectors

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

// Safe-range category names.
const (
	CategoryVPC      = "vpc"
	CategorySubnet   = "subnet"
	CategoryInstance = "instance"
	CategoryEIP      = "eip"
)

// hostRoute turns a bare IPv4 address into its /32 CIDR.
func hostRoute(ip string) string { return ip + "/32" }

// VPCRangeCollector whitelists every IPv4 CIDR block of every VPC, verbatim.
type VPCRangeCollector struct {
	Source VPCLister
}

func (c VPCRangeCollector) Category() string { return CategoryVPC }

func (c VPCRangeCollector) FetchSafeRanges(ctx context.Context) ([]string, error) {
	vpcs, err := c.Source.ListVPCs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list VPCs: %w", err)
	}
	var ranges []string
	for _, v := range vpcs {
		ranges = append(ranges, v.CidrBlocks...)
	}
	return lo.Uniq(ranges), nil
}

// SubnetRangeCollector whitelists every subnet CIDR block, verbatim.
type SubnetRangeCollector struct {
	Source SubnetLister
}

func (c SubnetRangeCollector) Category() string { return CategorySubnet }

func (c SubnetRangeCollector) FetchSafeRanges(ctx context.Context) ([]string, error) {
	subnets, err := c.Source.ListSubnets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subnets: %w", err)
	}
	ranges := make([]string, 0, len(subnets))
	for _, s := range subnets {
		if s.CidrBlock != "" {
			ranges = append(ranges, s.CidrBlock)
		}
	}
	return lo.Uniq(ranges), nil
}

// InstanceAddressCollector whitelists the public and private addresses of
// every network interface of every instance as /32 ranges.
type InstanceAddressCollector struct {
	Source InstanceLister
}

func (c InstanceAddressCollector) Category() string { return CategoryInstance }

func (c InstanceAddressCollector) FetchSafeRanges(ctx context.Context) ([]string, error) {
	instances, err := c.Source.ListInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	return InstanceAddressRanges(instances), nil
}

// InstanceAddressRanges derives the /32 ranges for a set of instances.
//
// Per interface: the public address when an association exists, the primary
// private address, then the same two rules for every entry of the private
// address list (public only when that entry has its own association).
// Output is deduplicated, first occurrence wins.
func InstanceAddressRanges(instances []models.AWSEC2Instance) []string {
	var ranges []string
	for _, inst := range instances {
		for _, eni := range inst.NetworkInterfaces {
			if eni.PublicIP != "" {
				ranges = append(ranges, hostRoute(eni.PublicIP))
			}
			if eni.PrivateIP != "" {
				ranges = append(ranges, hostRoute(eni.PrivateIP))
			}
			for _, addr := range eni.PrivateAddresses {
				if addr.PublicIP != "" {
					ranges = append(ranges, hostRoute(addr.PublicIP))
				}
				if addr.PrivateIP != "" {
					ranges = append(ranges, hostRoute(addr.PrivateIP))
				}
			}
		}
	}
	return lo.Uniq(ranges)
}

// ElasticIPRangeCollector whitelists every elastic address, plus the private
// address it is associated with, as /32 ranges.
type ElasticIPRangeCollector struct {
	Source ElasticIPLister
}

func (c ElasticIPRangeCollector) Category() string { return CategoryEIP }

func (c ElasticIPRangeCollector) FetchSafeRanges(ctx context.Context) ([]string, error) {
	addrs, err := c.Source.ListElasticIPs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list elastic IPs: %w", err)
	}
	var ranges []string
	for _, a := range addrs {
		if a.PrivateIP != "" {
			ranges = append(ranges, hostRoute(a.PrivateIP))
		}
		if a.PublicIP != "" {
			ranges = append(ranges, hostRoute(a.PublicIP))
		}
	}
	return lo.Uniq(ranges), nil
}
