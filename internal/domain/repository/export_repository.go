package repository

import (
	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportReportToCSV(report entity.ClassificationReport, filename string, outputDir string) (string, error)
	ExportReportToJSON(report entity.ClassificationReport, filename string, outputDir string) (string, error)
	ExportReportToPDF(report entity.ClassificationReport, filename string, outputDir string) (string, error)
}
