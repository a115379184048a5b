package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdssvc "github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

// ListDBInstances pages through every RDS database instance in the region.
func (s *Source) ListDBInstances(ctx context.Context) ([]models.AWSRDSInstance, error) {
	paginator := rdssvc.NewDescribeDBInstancesPaginator(s.clients.RDS, &rdssvc.DescribeDBInstancesInput{})

	var dbs []models.AWSRDSInstance
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe DB instances in %s: %w", s.region, err)
		}
		for _, db := range page.DBInstances {
			dbs = append(dbs, toRDSInstance(db, s.region))
		}
	}
	return dbs, nil
}

func toRDSInstance(db rdstypes.DBInstance, region string) models.AWSRDSInstance {
	out := models.AWSRDSInstance{
		DBInstanceID: aws.ToString(db.DBInstanceIdentifier),
		Region:       region,
		Status:       aws.ToString(db.DBInstanceStatus),
	}
	for _, g := range db.VpcSecurityGroups {
		if g.VpcSecurityGroupId != nil {
			out.VpcSecurityGroupIDs = append(out.VpcSecurityGroupIDs, *g.VpcSecurityGroupId)
		}
	}
	for _, g := range db.DBSecurityGroups {
		if g.DBSecurityGroupName != nil {
			out.DBSecurityGroupNames = append(out.DBSecurityGroupNames, *g.DBSecurityGroupName)
		}
	}
	return out
}
