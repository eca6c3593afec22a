package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
)

// ErrDriverNotFound marks a lookup for a driver that does not exist.
var ErrDriverNotFound = errors.New("driver not found")

// DriverRepository reads driver identity rows and their survey answers.
type DriverRepository struct {
	db *sqlx.DB
}

// NewDriverRepository constructs the repository.
func NewDriverRepository(db *sqlx.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

// GetProfile returns the identity block for a driver.
func (r *DriverRepository) GetProfile(ctx context.Context, id string) (*models.DriverProfile, error) {
	const query = `SELECT id, nombre_completo, cedula, telefono, area, rol
FROM conductores WHERE id = $1`
	var profile models.DriverProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, fmt.Errorf("get driver profile: %w", err)
	}
	return &profile, nil
}

type surveyRow struct {
	models.DriverSurvey
	Causes pq.StringArray `db:"causas_infraccion"`
}

// GetSurvey returns the latest survey for a driver, or nil when the driver
// has not filled one in. A missing survey is a normal state, not an error.
func (r *DriverRepository) GetSurvey(ctx context.Context, driverID string) (*models.DriverSurvey, error) {
	const query = `SELECT conductor_id, ciudad, zona, sede, cargo,
edad, genero, estado_civil, nivel_educativo, personas_a_cargo,
medio_transporte, medio_transporte_otro, tipo_vehiculo, placa_vehiculo, anio_vehiculo,
licencia, categoria_licencia, vigencia_licencia,
accidente_5_anios, cantidad_accidentes, gravedad_accidentes,
infracciones_5_anios, causas_infraccion, causa_infraccion_otra,
planea_viajes, frecuencia_viajes, medio_viajes,
observaciones, fecha_registro
FROM encuestas WHERE conductor_id = $1
ORDER BY fecha_registro DESC NULLS LAST
LIMIT 1`
	var row surveyRow
	if err := r.db.GetContext(ctx, &row, query, driverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get driver survey: %w", err)
	}
	survey := row.DriverSurvey
	survey.InfractionCauses = []string(row.Causes)
	return &survey, nil
}
