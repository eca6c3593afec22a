package export

// Style carries the presentation values shared by both renderers. It is
// built from configuration at startup and passed in explicitly so the
// renderers stay free of process-wide state.
type Style struct {
	BrandColor     string // hex RGB without leading '#'
	HeaderFont     string
	AltRowColor    string
	BorderColor    string
	CurrencySymbol string
	DateLayout     string
	ColumnWidth    float64
	Attribution    string
}

// DefaultStyle returns the stock presentation used when no configuration is
// supplied (tests, one-off tooling).
func DefaultStyle() Style {
	return Style{
		BrandColor:     "1F6FB2",
		HeaderFont:     "Arial",
		AltRowColor:    "F2F2F2",
		BorderColor:    "D3D3D3",
		CurrencySymbol: "$",
		DateLayout:     "02/01/2006",
		ColumnWidth:    22,
		Attribution:    "Generado por Fleet Panel",
	}
}

// normalized fills zero values with defaults so a partially configured style
// never produces an unstyled artifact.
func (s Style) normalized() Style {
	def := DefaultStyle()
	if s.BrandColor == "" {
		s.BrandColor = def.BrandColor
	}
	if s.HeaderFont == "" {
		s.HeaderFont = def.HeaderFont
	}
	if s.AltRowColor == "" {
		s.AltRowColor = def.AltRowColor
	}
	if s.BorderColor == "" {
		s.BorderColor = def.BorderColor
	}
	if s.CurrencySymbol == "" {
		s.CurrencySymbol = def.CurrencySymbol
	}
	if s.DateLayout == "" {
		s.DateLayout = def.DateLayout
	}
	if s.ColumnWidth <= 0 {
		s.ColumnWidth = def.ColumnWidth
	}
	if s.Attribution == "" {
		s.Attribution = def.Attribution
	}
	return s
}

// rgb decodes a 6-digit hex color into its components. Invalid input falls
// back to black.
func rgb(hexColor string) (int, int, int) {
	if len(hexColor) != 6 {
		return 0, 0, 0
	}
	var out [3]int
	for i := 0; i < 3; i++ {
		v := 0
		for _, c := range hexColor[i*2 : i*2+2] {
			v *= 16
			switch {
			case c >= '0' && c <= '9':
				v += int(c - '0')
			case c >= 'a' && c <= 'f':
				v += int(c-'a') + 10
			case c >= 'A' && c <= 'F':
				v += int(c-'A') + 10
			default:
				return 0, 0, 0
			}
		}
		out[i] = v
	}
	return out[0], out[1], out[2]
}
