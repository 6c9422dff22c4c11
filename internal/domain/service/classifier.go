package service

import (
	"strings"

	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
)

// Classify reconciles the observed canonical services against the
// approved catalog with plain set algebra:
//
//	approvedInUse    = observed ∩ catalog
//	unapprovedInUse  = observed − catalog
//	approvedNotInUse = catalog − observed
//
// Comparison is case-insensitive; approved services render with the
// catalog's casing and unapproved ones with the normalizer's output.
// Duplicate observed entries (several raw sources folding to one service)
// collapse to a single entry. Empty inputs are valid and produce a
// degenerate but well-formed report.
func Classify(observed []entity.CanonicalService, catalog *Catalog) entity.ClassificationReport {
	seen := make(map[string]entity.CanonicalService, len(observed))
	for _, svc := range observed {
		if svc == "" {
			continue
		}
		key := strings.ToLower(string(svc))
		if _, ok := seen[key]; !ok {
			seen[key] = svc
		}
	}

	var report entity.ClassificationReport
	for _, svc := range seen {
		if catalog.Contains(svc) {
			report.ApprovedInUse = append(report.ApprovedInUse, catalog.DisplayName(svc))
		} else {
			report.UnapprovedInUse = append(report.UnapprovedInUse, svc)
		}
	}

	for _, svc := range catalog.Services() {
		if _, ok := seen[strings.ToLower(string(svc))]; !ok {
			report.ApprovedNotInUse = append(report.ApprovedNotInUse, svc)
		}
	}

	sortServices(report.ApprovedInUse)
	sortServices(report.ApprovedNotInUse)
	sortServices(report.UnapprovedInUse)

	return report
}
