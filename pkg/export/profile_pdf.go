package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
)

const (
	profileTitle    = "Perfil del Conductor"
	profileSubtitle = "Ficha de identificación y cuestionario"

	noSurveyNotice      = "El conductor aún no ha diligenciado el cuestionario."
	noLicenseNotice     = "No posee licencia de conducción."
	noAccidentsNotice   = "Sin accidentes en los últimos 5 años."
	noInfractionsNotice = "Sin infracciones en los últimos 5 años."
)

// nowFunc is replaced in tests to pin the generation timestamp.
var nowFunc = time.Now

// ProfileRenderer lays out the paginated driver profile document.
type ProfileRenderer struct {
	style Style
}

// NewProfileRenderer constructs a document renderer with the given style.
func NewProfileRenderer(style Style) *ProfileRenderer {
	return &ProfileRenderer{style: style.normalized()}
}

// Render produces the document bytes. The survey is optional; every section
// below the identity block is gated on field presence, never asserted.
func (r *ProfileRenderer) Render(profile models.DriverProfile, survey *models.DriverSurvey) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetCreationDate(nowFunc())
	// Sort catalog keys so font object numbering does not follow map
	// iteration order; renders of equal content must be byte-identical.
	pdf.SetCatalogSort(true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AliasNbPages("")

	l := &profileLayout{pdf: pdf, tr: tr, style: r.style}

	// The total page count is only known after layout; gofpdf substitutes
	// the {nb} alias during output, which is the finalize pass stamping the
	// footer onto every page.
	pdf.SetFooterFunc(func() {
		pdf.SetDrawColor(180, 180, 180)
		pdf.Line(15, 280, 195, 280)
		pdf.SetY(-16)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetFont(r.style.HeaderFont, "I", 8)
		pdf.CellFormat(0, 5, tr(r.style.Attribution), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	l.headerBand(profileTitle, profileSubtitle)
	l.metadata(profile)
	l.basicInfo(profile)

	if survey == nil {
		l.sectionTitle("Cuestionario")
		l.notice(noSurveyNotice)
	} else {
		for _, section := range []func(*models.DriverSurvey){
			l.locationSection,
			l.demographicsSection,
			l.transportSection,
			l.licenseSection,
			l.accidentSection,
			l.infractionSection,
			l.tripSection,
			l.notesSection,
			l.registrationSection,
		} {
			section(survey)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render profile document: %w", err)
	}
	return buf.Bytes(), nil
}

// profileLayout is the cursor-driven section writer. gofpdf owns the
// vertical cursor and the automatic page breaks.
type profileLayout struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	style Style
}

func (l *profileLayout) headerBand(title, subtitle string) {
	br, bg, bb := rgb(l.style.BrandColor)
	l.pdf.SetFillColor(br, bg, bb)
	l.pdf.Rect(0, 0, 210, 26, "F")
	l.pdf.SetTextColor(255, 255, 255)
	l.pdf.SetFont(l.style.HeaderFont, "B", 16)
	l.pdf.SetXY(15, 6)
	l.pdf.CellFormat(0, 8, l.tr(title), "", 1, "L", false, 0, "")
	l.pdf.SetFont(l.style.HeaderFont, "", 10)
	l.pdf.SetX(15)
	l.pdf.CellFormat(0, 6, l.tr(subtitle), "", 1, "L", false, 0, "")
	l.pdf.SetTextColor(0, 0, 0)
	l.pdf.SetY(32)
}

func (l *profileLayout) metadata(profile models.DriverProfile) {
	l.pdf.SetFont(l.style.HeaderFont, "", 9)
	l.pdf.SetTextColor(100, 100, 100)
	generated := formatSpanishDateTime(nowFunc())
	l.pdf.CellFormat(0, 5, l.tr(fmt.Sprintf("Generado el %s — Identificación: %s", generated, profile.DocumentID)), "", 1, "L", false, 0, "")
	l.pdf.SetTextColor(0, 0, 0)
	l.pdf.Ln(2)
}

func (l *profileLayout) basicInfo(profile models.DriverProfile) {
	l.sectionTitle("Información básica")
	l.field("Nombre", profile.FullName)
	// The identifier always shows, even when the record carries an empty
	// value.
	l.fieldShowEmpty("Cédula", profile.DocumentID)
	l.field("Teléfono", deref(profile.Phone))
	l.field("Área", deref(profile.Area))
	l.field("Rol", deref(profile.Role))
}

func (l *profileLayout) locationSection(s *models.DriverSurvey) {
	if !anySet(s.City, s.Zone, s.Site, s.Position) {
		return
	}
	l.sectionTitle("Ubicación y cargo")
	l.field("Ciudad", deref(s.City))
	l.field("Zona", deref(s.Zone))
	l.field("Sede", deref(s.Site))
	l.field("Cargo", deref(s.Position))
}

func (l *profileLayout) demographicsSection(s *models.DriverSurvey) {
	if s.Age == nil && s.Dependents == nil && !anySet(s.Gender, s.MaritalStatus, s.EducationLevel) {
		return
	}
	l.sectionTitle("Datos demográficos")
	l.field("Edad", intValue(s.Age))
	l.field("Género", deref(s.Gender))
	l.field("Estado civil", deref(s.MaritalStatus))
	l.field("Nivel educativo", deref(s.EducationLevel))
	l.field("Personas a cargo", intValue(s.Dependents))
}

func (l *profileLayout) transportSection(s *models.DriverSurvey) {
	if s.VehicleYear == nil && !anySet(s.TransportMode, s.VehicleType, s.VehiclePlate) {
		return
	}
	l.sectionTitle("Transporte")
	l.field("Medio de transporte", withOther(s.TransportMode, s.TransportModeOther))
	l.field("Tipo de vehículo", deref(s.VehicleType))
	l.field("Placa", deref(s.VehiclePlate))
	l.field("Año del vehículo", intValue(s.VehicleYear))
}

func (l *profileLayout) licenseSection(s *models.DriverSurvey) {
	if !anySet(s.HasLicense, s.LicenseCategory) && s.LicenseValidity == nil {
		return
	}
	l.sectionTitle("Licencia de conducción")
	if deref(s.HasLicense) != models.AnswerYes {
		l.notice(noLicenseNotice)
		return
	}
	l.field("Categoría", deref(s.LicenseCategory))
	if s.LicenseValidity != nil {
		l.field("Vigencia", s.LicenseValidity.Format(l.style.DateLayout))
	}
}

func (l *profileLayout) accidentSection(s *models.DriverSurvey) {
	if !anySet(s.HadAccidents, s.AccidentSeverity) && s.AccidentCount == nil {
		return
	}
	l.sectionTitle("Accidentalidad (últimos 5 años)")
	if deref(s.HadAccidents) != models.AnswerYes {
		l.notice(noAccidentsNotice)
		return
	}
	l.field("Cantidad de accidentes", intValue(s.AccidentCount))
	l.field("Gravedad", deref(s.AccidentSeverity))
}

func (l *profileLayout) infractionSection(s *models.DriverSurvey) {
	if !anySet(s.HadInfractions, s.InfractionCauseOther) && len(s.InfractionCauses) == 0 {
		return
	}
	l.sectionTitle("Infracciones (últimos 5 años)")
	if deref(s.HadInfractions) != models.AnswerYes {
		l.notice(noInfractionsNotice)
		return
	}
	for _, cause := range s.InfractionCauses {
		l.bullet(cause)
	}
	if other := deref(s.InfractionCauseOther); other != "" {
		l.bullet("Otra: " + other)
	}
}

func (l *profileLayout) tripSection(s *models.DriverSurvey) {
	if !anySet(s.PlansTrips, s.TripFrequency, s.TripTransport) {
		return
	}
	l.sectionTitle("Planeación de viajes")
	l.field("Planea viajes", deref(s.PlansTrips))
	l.field("Frecuencia", deref(s.TripFrequency))
	l.field("Medio de viaje", withOther(s.TripTransport, nil))
}

func (l *profileLayout) notesSection(s *models.DriverSurvey) {
	if deref(s.Notes) == "" {
		return
	}
	l.sectionTitle("Observaciones")
	l.pdf.SetFont(l.style.HeaderFont, "", 10)
	l.pdf.MultiCell(0, 5.5, l.tr(*s.Notes), "", "L", false)
	l.pdf.Ln(1)
}

func (l *profileLayout) registrationSection(s *models.DriverSurvey) {
	if s.RegisteredAt == nil {
		return
	}
	l.sectionTitle("Registro")
	l.field("Fecha de diligenciamiento", s.RegisteredAt.Format(l.style.DateLayout))
}

func (l *profileLayout) sectionTitle(title string) {
	br, bg, bb := rgb(l.style.BrandColor)
	l.pdf.Ln(3)
	l.pdf.SetTextColor(br, bg, bb)
	l.pdf.SetFont(l.style.HeaderFont, "B", 12)
	l.pdf.CellFormat(0, 7, l.tr(title), "", 1, "L", false, 0, "")
	l.pdf.SetTextColor(0, 0, 0)
}

// field writes a label/value line, skipping absent values entirely.
func (l *profileLayout) field(label, value string) {
	if value == "" {
		return
	}
	l.fieldShowEmpty(label, value)
}

func (l *profileLayout) fieldShowEmpty(label, value string) {
	l.pdf.SetFont(l.style.HeaderFont, "B", 10)
	l.pdf.CellFormat(55, 6, l.tr(label+":"), "", 0, "L", false, 0, "")
	l.pdf.SetFont(l.style.HeaderFont, "", 10)
	l.pdf.MultiCell(0, 6, l.tr(value), "", "L", false)
}

func (l *profileLayout) notice(text string) {
	l.pdf.SetFont(l.style.HeaderFont, "I", 10)
	l.pdf.SetTextColor(90, 90, 90)
	l.pdf.CellFormat(0, 6, l.tr(text), "", 1, "L", false, 0, "")
	l.pdf.SetTextColor(0, 0, 0)
}

func (l *profileLayout) bullet(text string) {
	l.pdf.SetFont(l.style.HeaderFont, "", 10)
	l.pdf.SetX(20)
	l.pdf.MultiCell(0, 6, l.tr("• "+text), "", "L", false)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intValue(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func anySet(values ...*string) bool {
	for _, v := range values {
		if v != nil && *v != "" {
			return true
		}
	}
	return false
}

// withOther appends the free-text companion in parentheses when the primary
// answer is the "Otro" sentinel and the companion is present.
func withOther(value, other *string) string {
	v := deref(value)
	if v == models.AnswerOther {
		if o := deref(other); o != "" {
			return v + " (" + o + ")"
		}
	}
	return v
}
