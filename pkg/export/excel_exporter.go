package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
)

const (
	dataSheet = "Reporte"
	infoSheet = "Información"

	noDataMessage = "No se encontraron datos para el reporte"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Layouts accepted when deciding that a string cell holds a date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ExcelExporter renders a ReportResult into a styled two-sheet workbook.
type ExcelExporter struct {
	style Style
}

// NewExcelExporter constructs a workbook renderer with the given style.
func NewExcelExporter(style Style) *ExcelExporter {
	return &ExcelExporter{style: style.normalized()}
}

// cellSpec captures the formatting decisions for one data cell. Styles are
// cached per distinct spec.
type cellSpec struct {
	alt      bool
	date     bool
	currency bool
	numeric  bool
}

// Render produces the workbook bytes. It is a pure function of the result
// plus the wall clock; streaming the bytes is the caller's concern.
func (e *ExcelExporter) Render(result *models.ReportResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("report result nil")
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, fmt.Errorf("rename data sheet: %w", err)
	}
	if _, err := f.NewSheet(infoSheet); err != nil {
		return nil, fmt.Errorf("create info sheet: %w", err)
	}

	if len(result.Rows) == 0 {
		if err := e.writeNoData(f); err != nil {
			return nil, err
		}
	} else if err := e.writeData(f, result); err != nil {
		return nil, err
	}

	if err := e.writeInfo(f, result); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ExcelExporter) writeNoData(f *excelize.File) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   14,
			Color:  e.style.BrandColor,
			Family: e.style.HeaderFont,
		},
	})
	if err != nil {
		return fmt.Errorf("no-data style: %w", err)
	}
	if err := f.SetCellValue(dataSheet, "A1", noDataMessage); err != nil {
		return fmt.Errorf("no-data cell: %w", err)
	}
	if err := f.SetCellStyle(dataSheet, "A1", "A1", styleID); err != nil {
		return fmt.Errorf("no-data cell style: %w", err)
	}
	if err := f.SetColWidth(dataSheet, "A", "A", 46); err != nil {
		return fmt.Errorf("no-data width: %w", err)
	}
	return f.SetRowHeight(dataSheet, 1, 22)
}

// writeData populates the sheet in two passes: first the content, then a
// full pass over every populated cell applying formatting and borders.
func (e *ExcelExporter) writeData(f *excelize.File, result *models.ReportResult) error {
	columns := result.Rows[0].Keys()
	if len(columns) == 0 {
		return e.writeNoData(f)
	}

	specs := make([][]cellSpec, len(result.Rows))

	for colIdx, key := range columns {
		cell, err := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(dataSheet, cell, FormatLabel(key)); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for rowIdx, row := range result.Rows {
		specs[rowIdx] = make([]cellSpec, len(columns))
		for colIdx, key := range columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}

			value, _ := row.Get(key)
			spec := cellSpec{alt: rowIdx%2 == 0}

			// Date detection runs first and wins: the currency format is
			// numeric-only, so a date value in a cost/total column still
			// renders as a date.
			if t, ok := parseDateValue(value); ok {
				spec.date = true
				value = t
			}
			if isCurrencyKey(key) {
				spec.currency = true
			}
			if isNumericValue(value) {
				spec.numeric = true
			}
			specs[rowIdx][colIdx] = spec

			if value == nil {
				continue
			}
			if err := f.SetCellValue(dataSheet, cell, value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	return e.formatData(f, columns, specs)
}

// formatData is the second pass: header styling, alternating fills, number
// formats and thin borders over the whole populated range.
func (e *ExcelExporter) formatData(f *excelize.File, columns []string, specs [][]cellSpec) error {
	headerID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Color:  "FFFFFF",
			Size:   11,
			Family: e.style.HeaderFont,
		},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{e.style.BrandColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    e.thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(dataSheet, "A1", lastHeader, headerID); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	if err := f.SetRowHeight(dataSheet, 1, 24); err != nil {
		return fmt.Errorf("header height: %w", err)
	}
	if err := f.SetColWidth(dataSheet, "A", lastCol, e.style.ColumnWidth); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	cache := map[cellSpec]int{}
	for rowIdx, rowSpecs := range specs {
		for colIdx, spec := range rowSpecs {
			styleID, ok := cache[spec]
			if !ok {
				styleID, err = f.NewStyle(e.cellStyle(spec))
				if err != nil {
					return fmt.Errorf("cell style: %w", err)
				}
				cache[spec] = styleID
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellStyle(dataSheet, cell, cell, styleID); err != nil {
				return fmt.Errorf("apply cell style: %w", err)
			}
		}
	}
	return nil
}

func (e *ExcelExporter) cellStyle(spec cellSpec) *excelize.Style {
	st := &excelize.Style{Border: e.thinBorders()}
	if spec.alt {
		st.Fill = excelize.Fill{Type: "pattern", Color: []string{e.style.AltRowColor}, Pattern: 1}
	}
	switch {
	case spec.date:
		fmtStr := excelDateFormat(e.style.DateLayout)
		st.CustomNumFmt = &fmtStr
	case spec.currency:
		fmtStr := fmt.Sprintf(`"%s"#,##0.00`, e.style.CurrencySymbol)
		st.CustomNumFmt = &fmtStr
	}
	if spec.numeric {
		st.Alignment = &excelize.Alignment{Horizontal: "right"}
	}
	return st
}

func (e *ExcelExporter) thinBorders() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		borders = append(borders, excelize.Border{Type: side, Color: e.style.BorderColor, Style: 1})
	}
	return borders
}

// writeInfo produces the summary sheet: title, generation metadata, the
// applied filters that are actually set, and the statistics block.
func (e *ExcelExporter) writeInfo(f *excelize.File, result *models.ReportResult) error {
	titleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   14,
			Color:  e.style.BrandColor,
			Family: e.style.HeaderFont,
		},
	})
	if err != nil {
		return fmt.Errorf("info title style: %w", err)
	}
	sectionID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Family: e.style.HeaderFont},
	})
	if err != nil {
		return fmt.Errorf("info section style: %w", err)
	}

	row := 1
	setPair := func(label string, value interface{}) error {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(infoSheet, labelCell, label); err != nil {
			return err
		}
		if err := f.SetCellValue(infoSheet, valueCell, value); err != nil {
			return err
		}
		row++
		return nil
	}
	setSection := func(title string) error {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(infoSheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(infoSheet, cell, cell, sectionID); err != nil {
			return err
		}
		row++
		return nil
	}

	if err := f.SetCellValue(infoSheet, "A1", result.Title); err != nil {
		return fmt.Errorf("info title: %w", err)
	}
	if err := f.SetCellStyle(infoSheet, "A1", "A1", titleID); err != nil {
		return fmt.Errorf("info title style: %w", err)
	}
	row = 3

	if err := setPair("Tipo de reporte", string(result.Kind)); err != nil {
		return fmt.Errorf("info kind: %w", err)
	}
	if err := setPair("Generado", formatSpanishDateTime(result.GeneratedAt)); err != nil {
		return fmt.Errorf("info generated: %w", err)
	}
	if err := setPair("Total de registros", result.TotalRecords); err != nil {
		return fmt.Errorf("info total: %w", err)
	}

	filter := result.AppliedFilter
	if filter.StartDate != nil || filter.EndDate != nil || filter.Role != nil || filter.MaintenanceType != nil {
		row++
		if err := setSection("Filtros aplicados"); err != nil {
			return fmt.Errorf("info filters: %w", err)
		}
		if filter.StartDate != nil {
			if err := setPair("Desde", filter.StartDate.Format(e.style.DateLayout)); err != nil {
				return fmt.Errorf("info filter start: %w", err)
			}
		}
		if filter.EndDate != nil {
			if err := setPair("Hasta", filter.EndDate.Format(e.style.DateLayout)); err != nil {
				return fmt.Errorf("info filter end: %w", err)
			}
		}
		if filter.Role != nil {
			if err := setPair("Rol", *filter.Role); err != nil {
				return fmt.Errorf("info filter role: %w", err)
			}
		}
		if filter.MaintenanceType != nil {
			if err := setPair("Tipo de mantenimiento", *filter.MaintenanceType); err != nil {
				return fmt.Errorf("info filter maintenance: %w", err)
			}
		}
	}

	if len(result.Statistics) > 0 {
		row++
		if err := setSection("Estadísticas"); err != nil {
			return fmt.Errorf("info statistics: %w", err)
		}
		for _, stat := range result.Statistics {
			if err := setPair(FormatLabel(stat.Key), FormatStatValue(stat)); err != nil {
				return fmt.Errorf("info statistic %s: %w", stat.Key, err)
			}
		}
	}

	if err := f.SetColWidth(infoSheet, "A", "A", 28); err != nil {
		return fmt.Errorf("info width A: %w", err)
	}
	if err := f.SetColWidth(infoSheet, "B", "B", 40); err != nil {
		return fmt.Errorf("info width B: %w", err)
	}
	return nil
}

// FormatStatValue renders a statistic for display. Percentages keep two
// decimals; other aggregates drop trailing zeros.
func FormatStatValue(stat models.Stat) string {
	lower := strings.ToLower(stat.Key)
	if strings.HasPrefix(lower, "percentage") || strings.Contains(lower, "porcentaje") {
		return fmt.Sprintf("%.2f", stat.Value)
	}
	return strconv.FormatFloat(stat.Value, 'f', -1, 64)
}

func formatSpanishDateTime(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d, %02d:%02d",
		t.Day(), spanishMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

func parseDateValue(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v != nil {
			return *v, true
		}
	case string:
		if len(v) < 8 {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func isCurrencyKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "cost") || strings.Contains(lower, "total")
}

func isNumericValue(value interface{}) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// excelDateFormat converts a Go reference layout into the equivalent Excel
// number format.
func excelDateFormat(layout string) string {
	replacer := strings.NewReplacer("2006", "yyyy", "01", "mm", "02", "dd")
	return replacer.Replace(layout)
}
