package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
	"github.com/diillson/aws-service-audit-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// ExportReportToCSV grava o relatório como linhas (serviço, classificação).
func (r *ExportRepositoryImpl) ExportReportToCSV(report entity.ClassificationReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"Service", "Classification"})

	for _, svc := range report.ApprovedInUse {
		writer.Write([]string{string(svc), "approved, in use"})
	}
	for _, svc := range report.UnapprovedInUse {
		writer.Write([]string{string(svc), "unapproved, in use"})
	}
	for _, svc := range report.ApprovedNotInUse {
		writer.Write([]string{string(svc), "approved, not in use"})
	}

	return filepath.Abs(outputFilename)
}

// ExportReportToJSON grava o relatório completo, com metadados, em JSON.
func (r *ExportRepositoryImpl) ExportReportToJSON(report entity.ClassificationReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportReportToPDF grava o relatório como um PDF de uma página por seção.
func (r *ExportRepositoryImpl) ExportReportToPDF(report entity.ClassificationReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	drawSection := func(title string, services []entity.CanonicalService) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(fmt.Sprintf("%s (%d)", title, len(services))))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		if len(services) == 0 {
			pdf.MultiCell(190, 5, "None", "", "L", false)
		} else {
			for _, svc := range services {
				pdf.MultiCell(190, 5, tr(string(svc)), "", "L", false)
			}
		}
		pdf.Ln(8)
	}

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Service Usage Audit - %s", report.Period)), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Account ID: %s | Profile: %s | Source: %s",
		report.AccountID, report.Profile, report.Source)), "", 1, "L", true, 0, "")
	pdf.Ln(10)

	drawSection("Approved services in use", report.ApprovedInUse)
	drawSection("Unapproved services in use", report.UnapprovedInUse)
	drawSection("Approved services not in use", report.ApprovedNotInUse)

	if report.SkippedMalformed > 0 {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(150, 80, 0)
		pdf.MultiCell(190, 5,
			tr(fmt.Sprintf("%d malformed event source(s) were skipped during normalization.", report.SkippedMalformed)),
			"", "L", false)
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	footerText := fmt.Sprintf("Generated by AWS Service Audit (Go) | %s", time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// generateFilename monta "<nome>-<timestamp>.<ext>" dentro do diretório
// de saída, criando o diretório se necessário.
func generateFilename(filename, outputDir, extension string) (string, error) {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return "", fmt.Errorf("error creating output directory: %w", err)
		}
	}

	timestamp := time.Now().Format("20060102-150405")
	return filepath.Join(outputDir, fmt.Sprintf("%s-%s.%s", filename, timestamp, extension)), nil
}
