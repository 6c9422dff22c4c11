package service

import (
	"fmt"
	"strings"

	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
)

// MatchKind distingue regras de correspondência exata e por prefixo.
type MatchKind string

const (
	MatchExact  MatchKind = "exact"
	MatchPrefix MatchKind = "prefix"
)

// NormalizationRule maps a raw event-source pattern (already stripped of
// its domain suffix) to a canonical service name. Patterns are compared
// case-insensitively; Service keeps its display casing.
type NormalizationRule struct {
	Match   MatchKind `json:"match" yaml:"match" toml:"match"`
	Pattern string    `json:"pattern" yaml:"pattern" toml:"pattern"`
	Service string    `json:"service" yaml:"service" toml:"service"`
}

// Ruleset is the validated, frozen form of a rule table. Exact rules are
// indexed for lookup; prefix rules keep their declared order, which is
// their priority order.
type Ruleset struct {
	exact  map[string]entity.CanonicalService
	prefix []NormalizationRule
}

// NewRuleset validates a rule table and freezes it. Validation runs at
// load time so an inconsistent table fails the process start instead of
// producing silent misclassifications:
//   - empty patterns or services are rejected;
//   - two exact rules with the same pattern but different services are
//     ambiguous and rejected;
//   - two prefix rules with the same pattern but different services are
//     ambiguous and rejected (overlapping but distinct prefixes are fine,
//     the declared order decides).
func NewRuleset(rules []NormalizationRule) (*Ruleset, error) {
	rs := &Ruleset{
		exact: make(map[string]entity.CanonicalService, len(rules)),
	}

	prefixSeen := make(map[string]string)

	for i, rule := range rules {
		pattern := strings.ToLower(strings.TrimSpace(rule.Pattern))
		svc := strings.TrimSpace(rule.Service)

		if pattern == "" {
			return nil, fmt.Errorf("rule %d: empty pattern", i)
		}
		if svc == "" {
			return nil, fmt.Errorf("rule %d (%q): empty service", i, rule.Pattern)
		}

		switch rule.Match {
		case MatchExact:
			if existing, ok := rs.exact[pattern]; ok {
				if !strings.EqualFold(string(existing), svc) {
					return nil, fmt.Errorf("ambiguous exact rules for %q: %q vs %q", pattern, existing, svc)
				}
				continue
			}
			rs.exact[pattern] = entity.CanonicalService(svc)
		case MatchPrefix:
			if existing, ok := prefixSeen[pattern]; ok {
				if !strings.EqualFold(existing, svc) {
					return nil, fmt.Errorf("ambiguous prefix rules for %q: %q vs %q", pattern, existing, svc)
				}
				continue
			}
			prefixSeen[pattern] = svc
			rs.prefix = append(rs.prefix, NormalizationRule{
				Match:   MatchPrefix,
				Pattern: pattern,
				Service: svc,
			})
		default:
			return nil, fmt.Errorf("rule %d (%q): unknown match kind %q", i, rule.Pattern, rule.Match)
		}
	}

	return rs, nil
}

// MergeRules coloca as regras de override antes da base e descarta as
// regras da base sombreadas por um override de mesmo tipo e padrão.
// Overrides ganham por prioridade, então um conflito entre override e
// base não é ambiguidade; conflitos dentro da mesma camada continuam
// sendo rejeitados por NewRuleset.
func MergeRules(overrides, base []NormalizationRule) []NormalizationRule {
	shadowed := make(map[string]bool, len(overrides))
	for _, rule := range overrides {
		shadowed[string(rule.Match)+"\x00"+strings.ToLower(strings.TrimSpace(rule.Pattern))] = true
	}

	merged := make([]NormalizationRule, 0, len(overrides)+len(base))
	merged = append(merged, overrides...)
	for _, rule := range base {
		if shadowed[string(rule.Match)+"\x00"+strings.ToLower(strings.TrimSpace(rule.Pattern))] {
			continue
		}
		merged = append(merged, rule)
	}
	return merged
}

// DefaultRules returns a copy of the built-in rule table, for merging
// with user-supplied rules.
func DefaultRules() []NormalizationRule {
	out := make([]NormalizationRule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// DefaultRuleset builds the ruleset from the built-in table. The built-in
// table is validated by tests, so a failure here is a programming error.
func DefaultRuleset() *Ruleset {
	rs, err := NewRuleset(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("built-in rule table is invalid: %v", err))
	}
	return rs
}

// defaultRules é a tabela declarativa padrão. Regras exatas cobrem os
// apelidos conhecidos do CloudTrail; regras de prefixo cobrem famílias de
// endpoints. A ordem das regras de prefixo é a ordem de prioridade.
var defaultRules = []NormalizationRule{
	// Identity: several event sources fold into IAM.
	{MatchExact, "iam", "IAM"},
	{MatchExact, "sts", "IAM"},
	{MatchExact, "signin", "IAM"},

	// CloudWatch family: metrics and log APIs share one service.
	{MatchExact, "monitoring", "CloudWatch"},
	{MatchExact, "logs", "CloudWatch"},

	// Renamed or irregular endpoints.
	{MatchExact, "elasticloadbalancing", "ElasticLoadBalancingV2"},
	{MatchExact, "acm-pca", "ACMPCA"},
	{MatchExact, "inspector2", "InspectorV2"},
	{MatchExact, "elasticfilesystem", "EFS"},
	{MatchExact, "schemas", "EventSchemas"},
	{MatchExact, "firehose", "KinesisFirehose"},
	{MatchExact, "kinesisanalytics", "KinesisAnalyticsV2"},
	{MatchExact, "kafka", "MSK"},
	{MatchExact, "states", "StepFunctions"},
	{MatchExact, "servicediscovery", "ServiceDiscovery"},
	{MatchExact, "access-analyzer", "AccessAnalyzer"},
	{MatchExact, "appstream2", "AppStream"},
	{MatchExact, "execute-api", "ApiGateway"},
	{MatchExact, "es", "OpenSearch"},
	{MatchExact, "resource-groups", "ResourceGroups"},
	{MatchExact, "rolesanywhere", "RolesAnywhere"},
	{MatchExact, "q", "AmazonQ"},

	// Straightforward endpoints whose canonical casing differs from the
	// lowercase event source.
	{MatchExact, "ec2", "EC2"},
	{MatchExact, "s3", "S3"},
	{MatchExact, "acm", "ACM"},
	{MatchExact, "athena", "Athena"},
	{MatchExact, "apigateway", "ApiGateway"},
	{MatchExact, "appconfig", "AppConfig"},
	{MatchExact, "auditmanager", "AuditManager"},
	{MatchExact, "autoscaling", "AutoScaling"},
	{MatchExact, "backup", "Backup"},
	{MatchExact, "batch", "Batch"},
	{MatchExact, "cassandra", "Cassandra"},
	{MatchExact, "cloud9", "Cloud9"},
	{MatchExact, "cloudformation", "CloudFormation"},
	{MatchExact, "cloudfront", "CloudFront"},
	{MatchExact, "cloudshell", "CloudShell"},
	{MatchExact, "cloudtrail", "CloudTrail"},
	{MatchExact, "codedeploy", "CodeDeploy"},
	{MatchExact, "config", "Config"},
	{MatchExact, "dynamodb", "DynamoDB"},
	{MatchExact, "ecr", "ECR"},
	{MatchExact, "ecs", "ECS"},
	{MatchExact, "eks", "EKS"},
	{MatchExact, "events", "Events"},
	{MatchExact, "fsx", "FSx"},
	{MatchExact, "glue", "Glue"},
	{MatchExact, "guardduty", "GuardDuty"},
	{MatchExact, "kms", "KMS"},
	{MatchExact, "lambda", "Lambda"},
	{MatchExact, "networkfirewall", "NetworkFirewall"},
	{MatchExact, "networkmanager", "NetworkManager"},
	{MatchExact, "opensearch", "OpenSearch"},
	{MatchExact, "organizations", "Organizations"},
	{MatchExact, "quicksight", "QuickSight"},
	{MatchExact, "rds", "RDS"},
	{MatchExact, "redshift", "Redshift"},
	{MatchExact, "route53", "Route53"},
	{MatchExact, "route53resolver", "Route53Resolver"},
	{MatchExact, "secretsmanager", "SecretsManager"},
	{MatchExact, "ses", "SES"},
	{MatchExact, "sns", "SNS"},
	{MatchExact, "sqs", "SQS"},
	{MatchExact, "ssm", "SSM"},
	{MatchExact, "support", "Support"},
	{MatchExact, "transfer", "Transfer"},
	{MatchExact, "wafv2", "WAFv2"},

	// Prefix rules, most specific first. Exact rules above always win, so
	// e.g. "kinesisanalytics" never reaches the "kinesis" prefix.
	{MatchPrefix, "route53", "Route53"},
	{MatchPrefix, "cognito-", "Cognito"},
	{MatchPrefix, "cloudhsm", "CloudHSM"},
	{MatchPrefix, "sagemaker", "SageMaker"},
	{MatchPrefix, "kinesis", "Kinesis"},
	{MatchPrefix, "iot", "IoT"},
	{MatchPrefix, "waf", "WAFv2"},
}
