package models

// ---------------------------------------------------------------------------
// AWS raw resource models (collected by the inventory provider, consumed by
// the safe-range and attachment collectors)
// ---------------------------------------------------------------------------

// AWSEC2Instance represents a single collected EC2 instance together with the
// security groups it references and its network interfaces.
type AWSEC2Instance struct {
	InstanceID         string                `json:"instance_id"`
	Region             string                `json:"region"`
	State              string                `json:"state"`
	SecurityGroupIDs   []string              `json:"security_group_ids"`
	SecurityGroupNames []string              `json:"security_group_names,omitempty"`
	NetworkInterfaces  []AWSNetworkInterface `json:"network_interfaces"`
}

// AWSNetworkInterface is one ENI as reported on an EC2 instance.
// PublicIP is empty when the interface has no public association.
type AWSNetworkInterface struct {
	InterfaceID      string              `json:"interface_id"`
	PublicIP         string              `json:"public_ip,omitempty"`
	PrivateIP        string              `json:"private_ip,omitempty"`
	PrivateAddresses []AWSPrivateAddress `json:"private_addresses,omitempty"`
}

// AWSPrivateAddress is one entry of an ENI's private address list.
// The list includes the primary address; PublicIP is set only when that
// particular address carries its own public association.
type AWSPrivateAddress struct {
	PrivateIP string `json:"private_ip,omitempty"`
	PublicIP  string `json:"public_ip,omitempty"`
	Primary   bool   `json:"primary"`
}

// AWSVPC is a VPC with every IPv4 CIDR block associated with it.
type AWSVPC struct {
	VpcID      string   `json:"vpc_id"`
	Region     string   `json:"region"`
	CidrBlocks []string `json:"cidr_blocks"`
}

// AWSSubnet is a subnet and its IPv4 CIDR block.
type AWSSubnet struct {
	SubnetID  string `json:"subnet_id"`
	VpcID     string `json:"vpc_id"`
	Region    string `json:"region"`
	CidrBlock string `json:"cidr_block"`
}

// AWSElasticIP is an allocated (reserved) public address. PrivateIP is empty
// when the allocation is not associated with a network interface.
type AWSElasticIP struct {
	AllocationID string `json:"allocation_id"`
	Region       string `json:"region"`
	PublicIP     string `json:"public_ip"`
	PrivateIP    string `json:"private_ip,omitempty"`
}

// AWSRDSInstance represents a single collected RDS database instance and the
// security groups it references. DBSecurityGroupNames covers EC2-Classic DB
// security groups, which are referenced by name only.
type AWSRDSInstance struct {
	DBInstanceID         string   `json:"db_instance_id"`
	Region               string   `json:"region"`
	Status               string   `json:"status"`
	VpcSecurityGroupIDs  []string `json:"vpc_security_group_ids"`
	DBSecurityGroupNames []string `json:"db_security_group_names,omitempty"`
}

// AWSLoadBalancer represents a single collected Elastic Load Balancer (v2).
// Network load balancers without security groups have an empty slice.
type AWSLoadBalancer struct {
	LoadBalancerARN  string   `json:"load_balancer_arn"`
	LoadBalancerName string   `json:"load_balancer_name"`
	Region           string   `json:"region"`
	Type             string   `json:"type"`
	SecurityGroupIDs []string `json:"security_group_ids"`
}

// AWSNetworkInterfaceAttachment is a standalone ENI as returned by
// DescribeNetworkInterfaces. It covers ENI-backed services (Lambda, ECS tasks,
// VPC endpoints, ...) that never show up as EC2 instances.
type AWSNetworkInterfaceAttachment struct {
	InterfaceID        string   `json:"interface_id"`
	Region             string   `json:"region"`
	Status             string   `json:"status"`
	InterfaceType      string   `json:"interface_type"`
	SecurityGroupIDs   []string `json:"security_group_ids"`
	SecurityGroupNames []string `json:"security_group_names,omitempty"`
}
