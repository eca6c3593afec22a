package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
)

// ReportRepository runs the read-only report queries. Column expressions come
// exclusively from the field catalog, so the builder only ever concatenates
// trusted SQL; filter values always travel as positional arguments.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// FleetTotals carries the aggregate counters behind the statistics endpoint.
type FleetTotals struct {
	TotalVehicles     int     `db:"total_vehiculos"`
	TotalUsers        int     `db:"total_usuarios"`
	TotalMaintenances int     `db:"total_mantenimientos"`
	TotalDrivers      int     `db:"total_conductores"`
	MaintenanceCost   float64 `db:"costo_mantenimientos"`
}

type querySpec struct {
	from    string
	groupBy string
	orderBy string
	// column the date range filter applies to, empty when the kind has no
	// meaningful date axis
	dateColumn string
	roleColumn string
	typeColumn string
}

var querySpecs = map[models.ReportKind]querySpec{
	models.ReportKindVehicles: {
		from:       `FROM vehiculos v`,
		orderBy:    `ORDER BY v.placa`,
		dateColumn: `v.fecha_creacion`,
	},
	models.ReportKindUsers: {
		from:       `FROM usuarios u`,
		orderBy:    `ORDER BY u.apellido, u.nombre`,
		dateColumn: `u.fecha_creacion`,
		roleColumn: `u.rol`,
	},
	models.ReportKindMaintenances: {
		from:       `FROM mantenimientos m JOIN vehiculos v ON v.id = m.vehiculo_id`,
		orderBy:    `ORDER BY m.fecha DESC, v.placa`,
		dateColumn: `m.fecha`,
		typeColumn: `m.tipo_mantenimiento`,
	},
	models.ReportKindVehiclesMaintenance: {
		from:       `FROM vehiculos v LEFT JOIN mantenimientos m ON m.vehiculo_id = v.id`,
		groupBy:    `GROUP BY v.id`,
		orderBy:    `ORDER BY v.placa`,
		dateColumn: `m.fecha`,
	},
	models.ReportKindDriversVehicles: {
		from: `FROM conductores d
LEFT JOIN encuestas e ON e.conductor_id = d.id
LEFT JOIN asignaciones a ON a.conductor_id = d.id`,
		groupBy: `GROUP BY d.id, e.id`,
		orderBy: `ORDER BY d.nombre_completo`,
	},
}

// Query executes the catalog-shaped query for a report kind and returns the
// rows with columns in descriptor order.
func (r *ReportRepository) Query(ctx context.Context, kind models.ReportKind, fields []models.FieldDescriptor, filter models.ReportFilter) ([]models.Row, error) {
	spec, ok := querySpecs[kind]
	if !ok {
		return nil, fmt.Errorf("no query defined for report kind %q", kind)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields selected for report kind %q", kind)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, `%s AS "%s"`, f.Expr, f.Key)
	}
	sb.WriteString("\n")
	sb.WriteString(spec.from)

	where := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	argPos := 1
	appendCond := func(cond string, value interface{}) {
		where = append(where, fmt.Sprintf(cond, argPos))
		args = append(args, value)
		argPos++
	}
	if spec.dateColumn != "" {
		if filter.StartDate != nil {
			appendCond(spec.dateColumn+" >= $%d", *filter.StartDate)
		}
		if filter.EndDate != nil {
			appendCond(spec.dateColumn+" <= $%d", *filter.EndDate)
		}
	}
	if spec.roleColumn != "" && filter.Role != nil {
		appendCond(spec.roleColumn+" = $%d", *filter.Role)
	}
	if spec.typeColumn != "" && filter.MaintenanceType != nil {
		appendCond(spec.typeColumn+" = $%d", *filter.MaintenanceType)
	}
	if len(where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	if spec.groupBy != "" {
		sb.WriteString("\n")
		sb.WriteString(spec.groupBy)
	}
	sb.WriteString("\n")
	sb.WriteString(spec.orderBy)

	rows, err := r.db.QueryxContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s report: %w", kind, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read %s report columns: %w", kind, err)
	}
	out := make([]models.Row, 0, 64)
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan %s report row: %w", kind, err)
		}
		row := models.NewRow(len(columns))
		for i, col := range columns {
			row.Set(col, normalizeValue(values[i]))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s report rows: %w", kind, err)
	}
	return out, nil
}

// MaintenanceTypes returns the distinct maintenance type values on record.
func (r *ReportRepository) MaintenanceTypes(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT tipo_mantenimiento FROM mantenimientos
WHERE tipo_mantenimiento IS NOT NULL AND tipo_mantenimiento <> ''
ORDER BY tipo_mantenimiento`
	types := make([]string, 0, 8)
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list maintenance types: %w", err)
	}
	return types, nil
}

// FleetTotals aggregates the headline counters in a single round trip.
func (r *ReportRepository) FleetTotals(ctx context.Context) (*FleetTotals, error) {
	const query = `SELECT
(SELECT COUNT(*) FROM vehiculos) AS total_vehiculos,
(SELECT COUNT(*) FROM usuarios) AS total_usuarios,
(SELECT COUNT(*) FROM mantenimientos) AS total_mantenimientos,
(SELECT COUNT(*) FROM conductores) AS total_conductores,
(SELECT COALESCE(SUM(costo), 0) FROM mantenimientos) AS costo_mantenimientos`
	var totals FleetTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("aggregate fleet totals: %w", err)
	}
	return &totals, nil
}

// normalizeValue maps driver-specific scan types to the plain values the
// renderers understand. lib/pq hands text columns back as []byte.
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
