package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
	appErrors "github.com/dmorales-dev/fleet-panel-api/pkg/errors"
)

type workbookRenderer interface {
	Render(result *models.ReportResult) ([]byte, error)
}

type documentRenderer interface {
	Render(profile models.DriverProfile, survey *models.DriverSurvey) ([]byte, error)
}

type reportGenerator interface {
	Generate(ctx context.Context, kind models.ReportKind, filter models.ReportFilter, selected []string) (*models.ReportResult, error)
}

// ExportService turns assembled results into downloadable artifacts. Every
// artifact is rendered in memory for the single response and never retained.
type ExportService struct {
	reports  reportGenerator
	workbook workbookRenderer
	document documentRenderer
	logger   *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(reports reportGenerator, workbook workbookRenderer, document documentRenderer, logger *zap.Logger) *ExportService {
	return &ExportService{reports: reports, workbook: workbook, document: document, logger: logger}
}

// ReportWorkbook assembles a report and renders it as a spreadsheet. The
// returned filename carries the kind and the generation date.
func (s *ExportService) ReportWorkbook(ctx context.Context, kind models.ReportKind, filter models.ReportFilter, selected []string) ([]byte, string, error) {
	result, err := s.reports.Generate(ctx, kind, filter, selected)
	if err != nil {
		return nil, "", err
	}

	payload, err := s.workbook.Render(result)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrRender.Code, appErrors.ErrRender.Status, "workbook rendering failed")
	}

	s.logger.Sugar().Infow("workbook rendered",
		"kind", kind,
		"records", result.TotalRecords,
		"bytes", len(payload),
	)
	filename := fmt.Sprintf("Report_%s_%s.xlsx", kind, result.GeneratedAt.Format("2006-01-02"))
	return payload, filename, nil
}

// DriverProfileDocument renders the profile document for a driver.
func (s *ExportService) DriverProfileDocument(profile models.DriverProfile, survey *models.DriverSurvey) ([]byte, string, error) {
	payload, err := s.document.Render(profile, survey)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrRender.Code, appErrors.ErrRender.Status, "profile rendering failed")
	}

	s.logger.Sugar().Infow("profile document rendered",
		"driverId", profile.ID,
		"hasSurvey", survey != nil,
		"bytes", len(payload),
	)
	filename := fmt.Sprintf("Profile_%s_%s.pdf", profile.DocumentID, sanitizeFilename(profile.FullName))
	return payload, filename, nil
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)
	deaccenter          = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// sanitizeFilename strips diacritics and collapses anything outside the
// filename-safe set into underscores so Content-Disposition stays well formed.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if stripped, _, err := transform.String(deaccenter, name); err == nil {
		name = stripped
	}
	name = strings.ReplaceAll(name, " ", "_")
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}
