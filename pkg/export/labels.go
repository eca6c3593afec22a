package export

import (
	"regexp"
	"strings"
	"unicode"
)

// labelDictionary maps lowered tokens to their canonical display form.
// Legacy row keys are unaccented Spanish; the naive capitalizer would spell
// these wrong, so accented and all-caps forms are pinned here.
var labelDictionary = map[string]string{
	"anio":          "Año",
	"anios":         "Años",
	"vehiculo":      "Vehículo",
	"vehiculos":     "Vehículos",
	"categoria":     "Categoría",
	"ultima":        "Última",
	"ultimo":        "Último",
	"proxima":       "Próxima",
	"proximo":       "Próximo",
	"informacion":   "Información",
	"adicional":     "Adicional",
	"accidente":     "Accidente",
	"accidentes":    "Accidentes",
	"infracciones":  "Infracciones",
	"tecnomecanica": "Tecnomecánica",
	"soat":          "SOAT",
	"numero":        "Número",
	"telefono":      "Teléfono",
	"dia":           "Día",
}

// idPrefix strips foreign-key style prefixes such as "id_placa" or
// "idVehiculo".
var idPrefix = regexp.MustCompile(`^(?i:id)_?`)

// FormatLabel converts a raw row key into a human readable column header.
// It is a pure, total function: any string in, a display label out.
func FormatLabel(raw string) string {
	if raw == "" {
		return ""
	}

	s := idPrefix.ReplaceAllString(raw, "")
	s = strings.ReplaceAll(s, "_", " ")

	// Split compact camelCase keys into tokens.
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}

	s = strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
	if s == "" {
		return ""
	}

	tokens := strings.Split(s, " ")
	for i, token := range tokens {
		if canonical, ok := labelDictionary[token]; ok {
			tokens[i] = canonical
			continue
		}
		tokens[i] = capitalizeFirst(token)
	}

	return strings.Join(tokens, " ")
}

func capitalizeFirst(token string) string {
	runes := []rune(token)
	if len(runes) == 0 {
		return token
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
