package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
	"github.com/dmorales-dev/fleet-panel-api/internal/repository"
	appErrors "github.com/dmorales-dev/fleet-panel-api/pkg/errors"
)

const maintenanceTypesCacheKey = "reports:maintenance-types"

var reportTitles = map[models.ReportKind]string{
	models.ReportKindVehicles:            "Reporte de Vehículos",
	models.ReportKindUsers:               "Reporte de Usuarios",
	models.ReportKindMaintenances:        "Reporte de Mantenimientos",
	models.ReportKindVehiclesMaintenance: "Reporte de Vehículos y Mantenimientos",
	models.ReportKindDriversVehicles:     "Reporte de Conductores y Vehículos",
}

type reportQuerier interface {
	Query(ctx context.Context, kind models.ReportKind, fields []models.FieldDescriptor, filter models.ReportFilter) ([]models.Row, error)
	MaintenanceTypes(ctx context.Context) ([]string, error)
	FleetTotals(ctx context.Context) (*repository.FleetTotals, error)
}

type lookupCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ReportService assembles report results: it validates the request, resolves
// the field selection against the catalog, retrieves the rows and annotates
// the result with kind specific statistics.
type ReportService struct {
	repo      reportQuerier
	cache     lookupCache
	catalog   *FieldCatalog
	logger    *zap.Logger
	metrics   *MetricsService
	lookupTTL time.Duration
}

// NewReportService constructs the service. metrics may be nil.
func NewReportService(repo reportQuerier, cache lookupCache, catalog *FieldCatalog, logger *zap.Logger, metrics *MetricsService, lookupTTL time.Duration) *ReportService {
	return &ReportService{repo: repo, cache: cache, catalog: catalog, logger: logger, metrics: metrics, lookupTTL: lookupTTL}
}

// Fields exposes the selectable field catalog for a report kind.
func (s *ReportService) Fields(kind models.ReportKind) []models.FieldDescriptor {
	return s.catalog.FieldsFor(kind)
}

// Generate builds the full report result for a kind. Validation failures are
// reported before any retrieval happens.
func (s *ReportService) Generate(ctx context.Context, kind models.ReportKind, filter models.ReportFilter, selected []string) (*models.ReportResult, error) {
	if !models.IsValidReportKind(string(kind)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report kind: %s", kind))
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must not be after endDate")
	}

	fields := s.catalog.Resolve(kind, selected)
	if len(fields) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no valid fields selected")
	}

	rows, err := s.repo.Query(ctx, kind, fields, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRetrieval.Code, appErrors.ErrRetrieval.Status, "report retrieval failed")
	}

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}

	result := &models.ReportResult{
		ID:             uuid.NewString(),
		Kind:           kind,
		Title:          reportTitles[kind],
		Rows:           rows,
		AppliedFilter:  filter,
		SelectedFields: keys,
		GeneratedAt:    time.Now().UTC(),
		TotalRecords:   len(rows),
		Statistics:     computeStatistics(kind, rows),
	}
	return result, nil
}

// Per-kind helpers kept for callers that address a single report directly.

func (s *ReportService) GenerateVehiclesReport(ctx context.Context, filter models.ReportFilter, selected []string) (*models.ReportResult, error) {
	return s.Generate(ctx, models.ReportKindVehicles, filter, selected)
}

func (s *ReportService) GenerateUsersReport(ctx context.Context, filter models.ReportFilter, selected []string) (*models.ReportResult, error) {
	return s.Generate(ctx, models.ReportKindUsers, filter, selected)
}

func (s *ReportService) GenerateMaintenancesReport(ctx context.Context, filter models.ReportFilter, selected []string) (*models.ReportResult, error) {
	return s.Generate(ctx, models.ReportKindMaintenances, filter, selected)
}

func (s *ReportService) GenerateVehiclesMaintenanceReport(ctx context.Context, filter models.ReportFilter, selected []string) (*models.ReportResult, error) {
	return s.Generate(ctx, models.ReportKindVehiclesMaintenance, filter, selected)
}

func (s *ReportService) GenerateDriversVehiclesReport(ctx context.Context, filter models.ReportFilter, selected []string) (*models.ReportResult, error) {
	return s.Generate(ctx, models.ReportKindDriversVehicles, filter, selected)
}

// MaintenanceTypes serves the maintenance type lookup through the cache.
func (s *ReportService) MaintenanceTypes(ctx context.Context) ([]string, error) {
	var cached []string
	err := s.cache.Get(ctx, maintenanceTypesCacheKey, &cached)
	if err == nil {
		s.metrics.RecordCacheLookup(true)
		return cached, nil
	}
	s.metrics.RecordCacheLookup(false)
	if err != appErrors.ErrCacheMiss {
		s.logger.Sugar().Warnw("maintenance type cache read failed", "error", err)
	}

	types, err := s.repo.MaintenanceTypes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRetrieval.Code, appErrors.ErrRetrieval.Status, "maintenance type lookup failed")
	}
	if err := s.cache.Set(ctx, maintenanceTypesCacheKey, types, s.lookupTTL); err != nil {
		s.logger.Sugar().Warnw("maintenance type cache write failed", "error", err)
	}
	return types, nil
}

// GeneralStatistics joins the fleet totals and the maintenance type lookup.
// Both retrievals run concurrently.
func (s *ReportService) GeneralStatistics(ctx context.Context) (*models.GeneralStats, error) {
	var (
		totals *repository.FleetTotals
		types  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.repo.FleetTotals(gctx)
		if err != nil {
			return err
		}
		totals = t
		return nil
	})
	g.Go(func() error {
		t, err := s.MaintenanceTypes(gctx)
		if err != nil {
			return err
		}
		types = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.FromError(err)
	}

	return &models.GeneralStats{
		Stats: map[string]interface{}{
			"totalVehicles":        totals.TotalVehicles,
			"totalUsers":           totals.TotalUsers,
			"totalMaintenances":    totals.TotalMaintenances,
			"totalDrivers":         totals.TotalDrivers,
			"maintenanceCostTotal": round2(totals.MaintenanceCost),
		},
		MaintenanceTypes: types,
	}, nil
}

// computeStatistics derives the kind specific aggregates from the assembled
// rows. The order of the returned slice is the rendering order.
func computeStatistics(kind models.ReportKind, rows []models.Row) []models.Stat {
	switch kind {
	case models.ReportKindMaintenances:
		total := 0.0
		for _, row := range rows {
			cost, _ := row.Get("costo")
			total += coerceFloat(cost)
		}
		avg := 0.0
		if len(rows) > 0 {
			avg = total / float64(len(rows))
		}
		return []models.Stat{
			{Key: "totalCost", Value: round2(total)},
			{Key: "avgCost", Value: round2(avg)},
		}
	case models.ReportKindVehiclesMaintenance:
		totalMaintenances := 0.0
		totalCost := 0.0
		for _, row := range rows {
			count, _ := row.Get("totalMantenimientos")
			cost, _ := row.Get("costoTotal")
			totalMaintenances += coerceFloat(count)
			totalCost += coerceFloat(cost)
		}
		return []models.Stat{
			{Key: "totalVehicles", Value: float64(len(rows))},
			{Key: "totalMaintenances", Value: totalMaintenances},
			{Key: "totalCost", Value: round2(totalCost)},
		}
	case models.ReportKindDriversVehicles:
		withLicense := 0
		withAccidents := 0
		assignedVehicles := 0.0
		for _, row := range rows {
			license, _ := row.Get("licencia")
			accidents, _ := row.Get("accidentes")
			assigned, _ := row.Get("vehiculosAsignados")
			if coerceString(license) == models.AnswerYes {
				withLicense++
			}
			if coerceString(accidents) == models.AnswerYes {
				withAccidents++
			}
			assignedVehicles += coerceFloat(assigned)
		}
		percentage := 0.0
		if len(rows) > 0 {
			percentage = float64(withLicense) * 100 / float64(len(rows))
		}
		return []models.Stat{
			{Key: "totalDrivers", Value: float64(len(rows))},
			{Key: "totalVehicles", Value: assignedVehicles},
			{Key: "driversWithLicense", Value: float64(withLicense)},
			{Key: "driversWithAccidents", Value: float64(withAccidents)},
			{Key: "percentageWithLicense", Value: round2(percentage)},
		}
	default:
		return nil
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// coerceFloat folds the scan types the driver may produce into a float.
// Absent and unparsable values count as zero.
func coerceFloat(v interface{}) float64 {
	switch value := v.(type) {
	case nil:
		return 0
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int32:
		return float64(value)
	case int64:
		return float64(value)
	case []byte:
		return parseFloat(string(value))
	case string:
		return parseFloat(value)
	default:
		return 0
	}
}

func parseFloat(raw string) float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

func coerceString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case []byte:
		return string(value)
	default:
		return ""
	}
}
