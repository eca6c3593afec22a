package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
)

// ReportQuery captures the query parameters accepted by the report and
// export endpoints. Dates travel as ISO dates and are validated before the
// filter reaches the assembler.
type ReportQuery struct {
	StartDate       string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate         string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Role            string `form:"role"`
	MaintenanceType string `form:"maintenanceType"`
	Fields          string `form:"fields"`
}

// Filter converts the bound query into the assembler filter, mapping empty
// strings to absent values. The binding layer has already vetted the date
// format, so unparsable dates simply stay absent.
func (q ReportQuery) Filter() models.ReportFilter {
	f := models.ReportFilter{}
	if t, err := time.Parse("2006-01-02", q.StartDate); err == nil {
		f.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", q.EndDate); err == nil {
		f.EndDate = &t
	}
	if q.Role != "" {
		f.Role = &q.Role
	}
	if q.MaintenanceType != "" {
		f.MaintenanceType = &q.MaintenanceType
	}
	return f
}

// SelectedFields splits the comma separated fields parameter. An empty
// parameter means every catalog field.
func (q ReportQuery) SelectedFields() []string {
	if strings.TrimSpace(q.Fields) == "" {
		return nil
	}
	parts := strings.Split(q.Fields, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

// FieldsQuery captures the catalog lookup parameter.
type FieldsQuery struct {
	Type string `form:"type" binding:"required,reportkind"`
}

// ReportKindValidator backs the reportkind binding tag.
func ReportKindValidator(fl validator.FieldLevel) bool {
	return models.IsValidReportKind(fl.Field().String())
}
