package service

import (
	"sort"
	"strings"

	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
)

// Catalog is the approved-service set. Membership is case-insensitive:
// entries are folded at load time so a catalog author writing "cloudwatch"
// and a normalizer emitting "CloudWatch" still agree. The display casing
// of the first occurrence is kept for reporting.
type Catalog struct {
	entries map[string]entity.CanonicalService
}

// NewCatalog constrói um catálogo a partir de nomes canônicos. Entradas
// vazias e duplicadas (ignorando caixa) são descartadas.
func NewCatalog(names []string) *Catalog {
	c := &Catalog{entries: make(map[string]entity.CanonicalService, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := c.entries[key]; !ok {
			c.entries[key] = entity.CanonicalService(name)
		}
	}
	return c
}

// DefaultCatalog returns the built-in approved-service catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultApprovedServices)
}

// Contains reports whether the service is approved, ignoring case.
func (c *Catalog) Contains(svc entity.CanonicalService) bool {
	_, ok := c.entries[strings.ToLower(string(svc))]
	return ok
}

// DisplayName returns the catalog's preferred casing for an approved
// service, or the input unchanged when the service is not in the catalog.
func (c *Catalog) DisplayName(svc entity.CanonicalService) entity.CanonicalService {
	if display, ok := c.entries[strings.ToLower(string(svc))]; ok {
		return display
	}
	return svc
}

// Services returns all approved services sorted case-insensitively.
func (c *Catalog) Services() []entity.CanonicalService {
	out := make([]entity.CanonicalService, 0, len(c.entries))
	for _, svc := range c.entries {
		out = append(out, svc)
	}
	sortServices(out)
	return out
}

// Len returns the number of approved services.
func (c *Catalog) Len() int {
	return len(c.entries)
}

func sortServices(services []entity.CanonicalService) {
	sort.Slice(services, func(i, j int) bool {
		a, b := strings.ToLower(string(services[i])), strings.ToLower(string(services[j]))
		if a == b {
			return services[i] < services[j]
		}
		return a < b
	})
}

// defaultApprovedServices é o catálogo padrão de serviços sancionados, em
// forma canônica. Substituível via "approved_services" no arquivo de
// configuração sem tocar no motor de classificação.
var defaultApprovedServices = []string{
	"ACM",
	"ACMPCA",
	"AccessAnalyzer",
	"AmazonQ",
	"ApiGateway",
	"AppConfig",
	"AppStream",
	"Athena",
	"AuditManager",
	"AutoScaling",
	"Backup",
	"Batch",
	"Cassandra",
	"CloudFormation",
	"CloudFront",
	"CloudShell",
	"CloudTrail",
	"CloudWatch",
	"Cloud9",
	"CodeDeploy",
	"Config",
	"DynamoDB",
	"EC2",
	"ECR",
	"ECS",
	"EFS",
	"EKS",
	"ElasticLoadBalancingV2",
	"EventSchemas",
	"Events",
	"FSx",
	"Glue",
	"GuardDuty",
	"IAM",
	"InspectorV2",
	"KMS",
	"Kinesis",
	"KinesisAnalyticsV2",
	"KinesisFirehose",
	"Lambda",
	"MSK",
	"NetworkFirewall",
	"NetworkManager",
	"OpenSearch",
	"Organizations",
	"QuickSight",
	"RDS",
	"Redshift",
	"ResourceGroups",
	"RolesAnywhere",
	"Route53",
	"Route53Resolver",
	"S3",
	"SES",
	"SNS",
	"SQS",
	"SSM",
	"SecretsManager",
	"ServiceDiscovery",
	"StepFunctions",
	"Support",
	"Transfer",
	"WAFv2",
}
