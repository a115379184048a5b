package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2svc "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

// ListLoadBalancers pages through every application, network and gateway
// load balancer. Only ALBs and (optionally) NLBs carry security groups.
func (s *Source) ListLoadBalancers(ctx context.Context) ([]models.AWSLoadBalancer, error) {
	paginator := elbv2svc.NewDescribeLoadBalancersPaginator(s.clients.ELBv2, &elbv2svc.DescribeLoadBalancersInput{})

	var lbs []models.AWSLoadBalancer
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe load balancers in %s: %w", s.region, err)
		}
		for _, lb := range page.LoadBalancers {
			lbs = append(lbs, models.AWSLoadBalancer{
				LoadBalancerARN:  aws.ToString(lb.LoadBalancerArn),
				LoadBalancerName: aws.ToString(lb.LoadBalancerName),
				Region:           s.region,
				Type:             string(lb.Type),
				SecurityGroupIDs: append([]string(nil), lb.SecurityGroups...),
			})
		}
	}
	return lbs, nil
}
