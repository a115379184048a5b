package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

// liveInstanceStates is every instance state except terminated. Stopped
// instances keep their security groups and still count as attachments.
var liveInstanceStates = []string{"pending", "running", "shutting-down", "stopping", "stopped"}

// ListSecurityGroups pages through every security group in the region.
// Only IPv4 ranges are carried on ingress rules.
func (s *Source) ListSecurityGroups(ctx context.Context) ([]models.SecurityGroup, error) {
	paginator := ec2svc.NewDescribeSecurityGroupsPaginator(s.clients.EC2, &ec2svc.DescribeSecurityGroupsInput{})

	var groups []models.SecurityGroup
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe security groups in %s: %w", s.region, err)
		}
		for _, sg := range page.SecurityGroups {
			groups = append(groups, toSecurityGroup(sg, s.region))
		}
	}
	return groups, nil
}

func toSecurityGroup(sg ec2types.SecurityGroup, region string) models.SecurityGroup {
	rules := make([]models.IngressRule, 0, len(sg.IpPermissions))
	for _, perm := range sg.IpPermissions {
		cidrs := make([]string, 0, len(perm.IpRanges))
		for _, r := range perm.IpRanges {
			if r.CidrIp != nil {
				cidrs = append(cidrs, *r.CidrIp)
			}
		}
		rules = append(rules, models.IngressRule{
			Protocol: aws.ToString(perm.IpProtocol),
			FromPort: copyInt32(perm.FromPort),
			ToPort:   copyInt32(perm.ToPort),
			CIDRs:    cidrs,
		})
	}
	return models.SecurityGroup{
		ID:           aws.ToString(sg.GroupId),
		Name:         aws.ToString(sg.GroupName),
		Description:  aws.ToString(sg.Description),
		VpcID:        aws.ToString(sg.VpcId),
		Region:       region,
		IngressRules: rules,
	}
}

func copyInt32(p *int32) *int32 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ListInstances pages through every non-terminated EC2 instance.
func (s *Source) ListInstances(ctx context.Context) ([]models.AWSEC2Instance, error) {
	input := &ec2svc.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: liveInstanceStates,
			},
		},
	}
	paginator := ec2svc.NewDescribeInstancesPaginator(s.clients.EC2, input)

	var instances []models.AWSEC2Instance
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe instances in %s: %w", s.region, err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, toEC2Instance(inst, s.region))
			}
		}
	}
	return instances, nil
}

func toEC2Instance(inst ec2types.Instance, region string) models.AWSEC2Instance {
	var state string
	if inst.State != nil {
		state = string(inst.State.Name)
	}

	out := models.AWSEC2Instance{
		InstanceID: aws.ToString(inst.InstanceId),
		Region:     region,
		State:      state,
	}
	for _, g := range inst.SecurityGroups {
		if g.GroupId != nil {
			out.SecurityGroupIDs = append(out.SecurityGroupIDs, *g.GroupId)
		}
		if g.GroupName != nil {
			out.SecurityGroupNames = append(out.SecurityGroupNames, *g.GroupName)
		}
	}
	for _, eni := range inst.NetworkInterfaces {
		out.NetworkInterfaces = append(out.NetworkInterfaces, toNetworkInterface(eni))
	}
	return out
}

func toNetworkInterface(eni ec2types.InstanceNetworkInterface) models.AWSNetworkInterface {
	out := models.AWSNetworkInterface{
		InterfaceID: aws.ToString(eni.NetworkInterfaceId),
		PrivateIP:   aws.ToString(eni.PrivateIpAddress),
	}
	if eni.Association != nil {
		out.PublicIP = aws.ToString(eni.Association.PublicIp)
	}
	for _, addr := range eni.PrivateIpAddresses {
		pa := models.AWSPrivateAddress{
			PrivateIP: aws.ToString(addr.PrivateIpAddress),
			Primary:   aws.ToBool(addr.Primary),
		}
		if addr.Association != nil {
			pa.PublicIP = aws.ToString(addr.Association.PublicIp)
		}
		out.PrivateAddresses = append(out.PrivateAddresses, pa)
	}
	return out
}

// ListVPCs pages through every VPC. CidrBlocks holds every associated IPv4
// block, primary first.
func (s *Source) ListVPCs(ctx context.Context) ([]models.AWSVPC, error) {
	paginator := ec2svc.NewDescribeVpcsPaginator(s.clients.EC2, &ec2svc.DescribeVpcsInput{})

	var vpcs []models.AWSVPC
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe VPCs in %s: %w", s.region, err)
		}
		for _, v := range page.Vpcs {
			vpcs = append(vpcs, toVPC(v, s.region))
		}
	}
	return vpcs, nil
}

func toVPC(v ec2types.Vpc, region string) models.AWSVPC {
	var blocks []string
	if v.CidrBlock != nil {
		blocks = append(blocks, *v.CidrBlock)
	}
	for _, assoc := range v.CidrBlockAssociationSet {
		if assoc.CidrBlock == nil {
			continue
		}
		if assoc.CidrBlockState != nil && assoc.CidrBlockState.State != ec2types.VpcCidrBlockStateCodeAssociated {
			continue
		}
		if *assoc.CidrBlock != aws.ToString(v.CidrBlock) {
			blocks = append(blocks, *assoc.CidrBlock)
		}
	}
	return models.AWSVPC{
		VpcID:      aws.ToString(v.VpcId),
		Region:     region,
		CidrBlocks: blocks,
	}
}

// ListSubnets pages through every subnet.
func (s *Source) ListSubnets(ctx context.Context) ([]models.AWSSubnet, error) {
	paginator := ec2svc.NewDescribeSubnetsPaginator(s.clients.EC2, &ec2svc.DescribeSubnetsInput{})

	var subnets []models.AWSSubnet
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe subnets in %s: %w", s.region, err)
		}
		for _, sn := range page.Subnets {
			subnets = append(subnets, models.AWSSubnet{
				SubnetID:  aws.ToString(sn.SubnetId),
				VpcID:     aws.ToString(sn.VpcId),
				Region:    s.region,
				CidrBlock: aws.ToString(sn.CidrBlock),
			})
		}
	}
	return subnets, nil
}

// ListElasticIPs returns every allocated elastic address. DescribeAddresses
// returns the full set in one call.
func (s *Source) ListElasticIPs(ctx context.Context) ([]models.AWSElasticIP, error) {
	out, err := s.clients.EC2.DescribeAddresses(ctx, &ec2svc.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("describe addresses in %s: %w", s.region, err)
	}

	addrs := make([]models.AWSElasticIP, 0, len(out.Addresses))
	for _, a := range out.Addresses {
		addrs = append(addrs, models.AWSElasticIP{
			AllocationID: aws.ToString(a.AllocationId),
			Region:       s.region,
			PublicIP:     aws.ToString(a.PublicIp),
			PrivateIP:    aws.ToString(a.PrivateIpAddress),
		})
	}
	return addrs, nil
}

// ListNetworkInterfaces pages through every ENI regardless of status.
func (s *Source) ListNetworkInterfaces(ctx context.Context) ([]models.AWSNetworkInterfaceAttachment, error) {
	paginator := ec2svc.NewDescribeNetworkInterfacesPaginator(s.clients.EC2, &ec2svc.DescribeNetworkInterfacesInput{})

	var enis []models.AWSNetworkInterfaceAttachment
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe network interfaces in %s: %w", s.region, err)
		}
		for _, ni := range page.NetworkInterfaces {
			eni := models.AWSNetworkInterfaceAttachment{
				InterfaceID:   aws.ToString(ni.NetworkInterfaceId),
				Region:        s.region,
				Status:        string(ni.Status),
				InterfaceType: string(ni.InterfaceType),
			}
			for _, g := range ni.Groups {
				if g.GroupId != nil {
					eni.SecurityGroupIDs = append(eni.SecurityGroupIDs, *g.GroupId)
				}
				if g.GroupName != nil {
					eni.SecurityGroupNames = append(eni.SecurityGroupNames, *g.GroupName)
				}
			}
			enis = append(enis, eni)
		}
	}
	return enis, nil
}
