package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
)

func TestNewRulesetRejectsAmbiguousExactRules(t *testing.T) {
	_, err := NewRuleset([]NormalizationRule{
		{Match: MatchExact, Pattern: "sts", Service: "IAM"},
		{Match: MatchExact, Pattern: "STS", Service: "STS"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous exact rules")
}

func TestNewRulesetRejectsAmbiguousPrefixRules(t *testing.T) {
	_, err := NewRuleset([]NormalizationRule{
		{Match: MatchPrefix, Pattern: "kinesis", Service: "Kinesis"},
		{Match: MatchPrefix, Pattern: "kinesis", Service: "KinesisVideo"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous prefix rules")
}

func TestNewRulesetToleratesAgreeingDuplicates(t *testing.T) {
	rs, err := NewRuleset([]NormalizationRule{
		{Match: MatchExact, Pattern: "sts", Service: "IAM"},
		{Match: MatchExact, Pattern: "sts", Service: "iam"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CanonicalService("IAM"), NewNormalizer(rs).Normalize("sts.amazonaws.com"))
}

func TestNewRulesetRejectsEmptyPatternOrService(t *testing.T) {
	_, err := NewRuleset([]NormalizationRule{{Match: MatchExact, Pattern: " ", Service: "EC2"}})
	assert.Error(t, err)

	_, err = NewRuleset([]NormalizationRule{{Match: MatchExact, Pattern: "ec2", Service: ""}})
	assert.Error(t, err)
}

func TestNewRulesetRejectsUnknownMatchKind(t *testing.T) {
	_, err := NewRuleset([]NormalizationRule{{Match: "glob", Pattern: "ec2*", Service: "EC2"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown match kind")
}

func TestDefaultRulesetIsValid(t *testing.T) {
	assert.NotPanics(t, func() { DefaultRuleset() })
}

func TestMergeRulesOverridesShadowedDefaults(t *testing.T) {
	overrides := []NormalizationRule{
		{Match: MatchExact, Pattern: "sts", Service: "STS"},
	}

	merged := MergeRules(overrides, DefaultRules())
	rs, err := NewRuleset(merged)
	require.NoError(t, err)

	n := NewNormalizer(rs)
	assert.Equal(t, entity.CanonicalService("STS"), n.Normalize("sts.amazonaws.com"))
	// Regras não sombreadas continuam valendo.
	assert.Equal(t, entity.CanonicalService("IAM"), n.Normalize("signin.amazonaws.com"))
}

func TestMergeRulesKeepsDistinctPatterns(t *testing.T) {
	overrides := []NormalizationRule{
		{Match: MatchExact, Pattern: "newsvc", Service: "NewService"},
	}

	merged := MergeRules(overrides, DefaultRules())
	assert.Len(t, merged, len(DefaultRules())+1)
}
