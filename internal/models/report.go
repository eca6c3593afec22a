package models

import "time"

// ReportKind enumerates the supported report categories.
type ReportKind string

const (
	ReportKindVehicles            ReportKind = "vehicles"
	ReportKindUsers               ReportKind = "users"
	ReportKindMaintenances        ReportKind = "maintenances"
	ReportKindVehiclesMaintenance ReportKind = "vehicles_maintenance"
	ReportKindDriversVehicles     ReportKind = "drivers_vehicles"
)

// IsValidReportKind reports whether raw names a supported report kind.
func IsValidReportKind(raw string) bool {
	switch ReportKind(raw) {
	case ReportKindVehicles, ReportKindUsers, ReportKindMaintenances,
		ReportKindVehiclesMaintenance, ReportKindDriversVehicles:
		return true
	default:
		return false
	}
}

// ReportFilter narrows the row set a report is built from. Nil members mean
// "not filtered".
type ReportFilter struct {
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Role            *string    `json:"role,omitempty"`
	MaintenanceType *string    `json:"maintenanceType,omitempty"`
}

// FieldType classifies how a field should be presented.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeCurrency FieldType = "currency"
)

// FieldDescriptor describes one selectable report column. Expr is the SQL
// expression the retrieval layer selects for the field; it never leaves the
// server.
type FieldDescriptor struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
	Expr  string    `json:"-"`
}

// Stat is one named aggregate. Statistics are kept as an ordered slice so
// rendered output is deterministic.
type Stat struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// ReportResult is the assembled, statistic-annotated output consumed by the
// spreadsheet renderer. Built fresh per request and discarded after
// rendering.
type ReportResult struct {
	ID             string       `json:"id"`
	Kind           ReportKind   `json:"kind"`
	Title          string       `json:"title"`
	Rows           []Row        `json:"rows"`
	AppliedFilter  ReportFilter `json:"appliedFilter"`
	SelectedFields []string     `json:"selectedFields,omitempty"`
	GeneratedAt    time.Time    `json:"generatedAt"`
	TotalRecords   int          `json:"totalRecords"`
	Statistics     []Stat       `json:"statistics,omitempty"`
}

// GeneralStats joins the global report statistics with the maintenance type
// lookup; both retrievals run concurrently.
type GeneralStats struct {
	Stats            map[string]interface{} `json:"stats"`
	MaintenanceTypes []string               `json:"maintenanceTypes"`
}
