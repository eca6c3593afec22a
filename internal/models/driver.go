package models

import "time"

// Sentinel values used across survey answers. The legacy capture form stores
// yes/no flags and the "other" escape hatch as literal Spanish strings.
const (
	AnswerYes   = "SI"
	AnswerNo    = "NO"
	AnswerOther = "Otro"
)

// DriverProfile holds the identity block of the profile document.
type DriverProfile struct {
	ID         string  `db:"id" json:"id"`
	FullName   string  `db:"nombre_completo" json:"fullName"`
	DocumentID string  `db:"cedula" json:"documentId"`
	Phone      *string `db:"telefono" json:"phone,omitempty"`
	Area       *string `db:"area" json:"area,omitempty"`
	Role       *string `db:"rol" json:"role,omitempty"`
}

// DriverSurvey is the optional extended questionnaire attached to a driver.
// Every field may be absent; absent fields are skipped by the renderer.
type DriverSurvey struct {
	DriverID string `db:"conductor_id" json:"driverId"`

	// Location / role
	City     *string `db:"ciudad" json:"city,omitempty"`
	Zone     *string `db:"zona" json:"zone,omitempty"`
	Site     *string `db:"sede" json:"site,omitempty"`
	Position *string `db:"cargo" json:"position,omitempty"`

	// Demographics
	Age            *int    `db:"edad" json:"age,omitempty"`
	Gender         *string `db:"genero" json:"gender,omitempty"`
	MaritalStatus  *string `db:"estado_civil" json:"maritalStatus,omitempty"`
	EducationLevel *string `db:"nivel_educativo" json:"educationLevel,omitempty"`
	Dependents     *int    `db:"personas_a_cargo" json:"dependents,omitempty"`

	// Transport
	TransportMode      *string `db:"medio_transporte" json:"transportMode,omitempty"`
	TransportModeOther *string `db:"medio_transporte_otro" json:"transportModeOther,omitempty"`
	VehicleType        *string `db:"tipo_vehiculo" json:"vehicleType,omitempty"`
	VehiclePlate       *string `db:"placa_vehiculo" json:"vehiclePlate,omitempty"`
	VehicleYear        *int    `db:"anio_vehiculo" json:"vehicleYear,omitempty"`

	// License
	HasLicense      *string    `db:"licencia" json:"hasLicense,omitempty"`
	LicenseCategory *string    `db:"categoria_licencia" json:"licenseCategory,omitempty"`
	LicenseValidity *time.Time `db:"vigencia_licencia" json:"licenseValidity,omitempty"`

	// Accident history (last 5 years)
	HadAccidents     *string `db:"accidente_5_anios" json:"hadAccidents,omitempty"`
	AccidentCount    *int    `db:"cantidad_accidentes" json:"accidentCount,omitempty"`
	AccidentSeverity *string `db:"gravedad_accidentes" json:"accidentSeverity,omitempty"`

	// Infraction history (last 5 years)
	HadInfractions       *string  `db:"infracciones_5_anios" json:"hadInfractions,omitempty"`
	InfractionCauses     []string `db:"-" json:"infractionCauses,omitempty"`
	InfractionCauseOther *string  `db:"causa_infraccion_otra" json:"infractionCauseOther,omitempty"`

	// Trip planning
	PlansTrips    *string `db:"planea_viajes" json:"plansTrips,omitempty"`
	TripFrequency *string `db:"frecuencia_viajes" json:"tripFrequency,omitempty"`
	TripTransport *string `db:"medio_viajes" json:"tripTransport,omitempty"`

	// Free text
	Notes *string `db:"observaciones" json:"notes,omitempty"`

	RegisteredAt *time.Time `db:"fecha_registro" json:"registeredAt,omitempty"`
}
