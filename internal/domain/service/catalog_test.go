package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
)

func TestCatalogContainsIgnoresCase(t *testing.T) {
	c := NewCatalog([]string{"CloudWatch", "EC2"})

	assert.True(t, c.Contains("cloudwatch"))
	assert.True(t, c.Contains("CLOUDWATCH"))
	assert.True(t, c.Contains("ec2"))
	assert.False(t, c.Contains("Glue"))
}

func TestCatalogDropsEmptyAndDuplicateEntries(t *testing.T) {
	c := NewCatalog([]string{"EC2", " ", "", "ec2", "S3"})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []entity.CanonicalService{"EC2", "S3"}, c.Services())
}

func TestCatalogDisplayNameKeepsFirstCasing(t *testing.T) {
	c := NewCatalog([]string{"CloudWatch"})

	assert.Equal(t, entity.CanonicalService("CloudWatch"), c.DisplayName("cloudwatch"))
	// Serviço fora do catálogo passa inalterado.
	assert.Equal(t, entity.CanonicalService("Glue"), c.DisplayName("Glue"))
}

func TestDefaultCatalogCoversCoreServices(t *testing.T) {
	c := DefaultCatalog()

	for _, svc := range []entity.CanonicalService{"EC2", "S3", "Lambda", "CloudWatch", "IAM"} {
		assert.True(t, c.Contains(svc), "expected %s in the default catalog", svc)
	}
}
