package inventory

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2svc "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	rdssvc "github.com/aws/aws-sdk-go-v2/service/rds"
)

// ec2APIClient is the narrow EC2 interface used by the inventory. It embeds
// the SDK paginator client interfaces so the generated paginators can be used
// directly. DescribeAddresses is not paginated.
type ec2APIClient interface {
	ec2svc.DescribeSecurityGroupsAPIClient
	ec2svc.DescribeInstancesAPIClient
	ec2svc.DescribeVpcsAPIClient
	ec2svc.DescribeSubnetsAPIClient
	ec2svc.DescribeNetworkInterfacesAPIClient
	DescribeAddresses(ctx context.Context, params *ec2svc.DescribeAddressesInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeAddressesOutput, error)
}

// rdsAPIClient is the narrow RDS interface for DB instance listing.
type rdsAPIClient interface {
	rdssvc.DescribeDBInstancesAPIClient
}

// elbv2APIClient is the narrow ELBv2 interface for load balancer listing.
type elbv2APIClient interface {
	elbv2svc.DescribeLoadBalancersAPIClient
}

// invClients bundles every AWS service client the inventory reads from.
type invClients struct {
	EC2   ec2APIClient
	RDS   rdsAPIClient
	ELBv2 elbv2APIClient
}

// invClientFactory creates invClients from a region-scoped AWS config.
// Injection point: tests replace this with a function returning fake clients.
type invClientFactory func(cfg aws.Config) *invClients

// newDefaultInvClients creates production AWS SDK clients from cfg.
func newDefaultInvClients(cfg aws.Config) *invClients {
	return &invClients{
		EC2:   ec2svc.NewFromConfig(cfg),
		RDS:   rdssvc.NewFromConfig(cfg),
		ELBv2: elbv2svc.NewFromConfig(cfg),
	}
}
