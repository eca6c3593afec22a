package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
)

func strPtr(s string) *string { return &s }
func numPtr(n int) *int       { return &n }

func sampleProfile() models.DriverProfile {
	return models.DriverProfile{
		ID:         "d1",
		FullName:   "Carlos Andrés Ruiz",
		DocumentID: "10203040",
		Phone:      strPtr("3001234567"),
		Area:       strPtr("Logística"),
		Role:       strPtr("DRIVER"),
	}
}

func sampleSurvey() *models.DriverSurvey {
	validity := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	registered := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	return &models.DriverSurvey{
		DriverID:             "d1",
		City:                 strPtr("Bogotá"),
		Position:             strPtr("Conductor"),
		Age:                  numPtr(34),
		TransportMode:        strPtr(models.AnswerOther),
		TransportModeOther:   strPtr("Bicicleta eléctrica"),
		HasLicense:           strPtr(models.AnswerYes),
		LicenseCategory:      strPtr("B1"),
		LicenseValidity:      &validity,
		HadAccidents:         strPtr(models.AnswerNo),
		HadInfractions:       strPtr(models.AnswerYes),
		InfractionCauses:     []string{"Exceso de velocidad", "Mal parqueo"},
		InfractionCauseOther: strPtr("Semáforo en rojo"),
		Notes:                strPtr("Conductor con ruta fija en la sabana."),
		RegisteredAt:         &registered,
	}
}

func TestProfileRenderProducesDocument(t *testing.T) {
	renderer := NewProfileRenderer(DefaultStyle())

	payload, err := renderer.Render(sampleProfile(), sampleSurvey())

	require.NoError(t, err)
	require.NotEmpty(t, payload)
	assert.Equal(t, "%PDF", string(payload[:4]))
}

func TestProfileRenderWithoutSurvey(t *testing.T) {
	renderer := NewProfileRenderer(DefaultStyle())

	withSurvey, err := renderer.Render(sampleProfile(), sampleSurvey())
	require.NoError(t, err)

	withoutSurvey, err := renderer.Render(sampleProfile(), nil)
	require.NoError(t, err)

	require.NotEmpty(t, withoutSurvey)
	assert.Equal(t, "%PDF", string(withoutSurvey[:4]))
	assert.Less(t, len(withoutSurvey), len(withSurvey), "missing survey renders the notice instead of the sections")
}

func TestProfileRenderSkipsEmptySections(t *testing.T) {
	renderer := NewProfileRenderer(DefaultStyle())
	survey := &models.DriverSurvey{DriverID: "d1", City: strPtr("Cali")}

	sparse, err := renderer.Render(sampleProfile(), survey)
	require.NoError(t, err)

	full, err := renderer.Render(sampleProfile(), sampleSurvey())
	require.NoError(t, err)

	assert.Less(t, len(sparse), len(full))
}

func TestProfileRenderNegativeFlags(t *testing.T) {
	restore := nowFunc
	nowFunc = func() time.Time { return time.Date(2024, time.March, 15, 14, 5, 0, 0, time.UTC) }
	defer func() { nowFunc = restore }()

	renderer := NewProfileRenderer(DefaultStyle())
	negative := &models.DriverSurvey{
		DriverID:       "d1",
		HasLicense:     strPtr(models.AnswerNo),
		HadAccidents:   strPtr(models.AnswerNo),
		HadInfractions: strPtr(models.AnswerNo),
	}

	payload, err := renderer.Render(sampleProfile(), negative)
	require.NoError(t, err)
	assert.NotEmpty(t, payload)

	// The negative branch renders a single fixed line; sub-details present on
	// the record must not leak into the document.
	withDetails := &models.DriverSurvey{
		DriverID:         "d1",
		HasLicense:       strPtr(models.AnswerNo),
		HadAccidents:     strPtr(models.AnswerNo),
		HadInfractions:   strPtr(models.AnswerNo),
		AccidentCount:    numPtr(3),
		AccidentSeverity: strPtr("Grave"),
	}
	same, err := renderer.Render(sampleProfile(), withDetails)
	require.NoError(t, err)
	assert.Equal(t, payload, same)
}

func TestWithOther(t *testing.T) {
	assert.Equal(t, "Otro (Bicicleta)", withOther(strPtr(models.AnswerOther), strPtr("Bicicleta")))
	assert.Equal(t, "Otro", withOther(strPtr(models.AnswerOther), nil))
	assert.Equal(t, "Moto", withOther(strPtr("Moto"), strPtr("ignored")))
	assert.Equal(t, "", withOther(nil, nil))
}
