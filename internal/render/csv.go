package render

import (
	"bytes"
	"fmt"

	"reportsvc/internal/csvexport"
	"reportsvc/internal/domain"
	"reportsvc/internal/port"
)

// CSVRenderer exports the order table, with its totals row, as CSV.
type CSVRenderer struct {
	tpl *Template
}

// NewCSVRenderer creates a CSV renderer for tpl.
func NewCSVRenderer(tpl *Template) port.DocumentRenderer {
	return &CSVRenderer{tpl: tpl}
}

func (r *CSVRenderer) Format() domain.ReportFormat { return domain.FormatCSV }

func (r *CSVRenderer) Render(orders []domain.Order, filters *domain.PartnerReportFilters) ([]byte, error) {
	b, err := bind(r.tpl, orders, filters)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	if err := w.WriteRow(b.headerRow()); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for i := 0; i < b.data.Len(); i++ {
		if err := w.WriteRow(b.dataRow(i)); err != nil {
			return nil, fmt.Errorf("writing csv row %d: %w", i, err)
		}
	}
	if r.tpl.HasTotals() {
		if err := w.WriteRow(b.totalsRow()); err != nil {
			return nil, fmt.Errorf("writing csv totals: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Renderers returns every renderer for tpl.
func Renderers(tpl *Template) []port.DocumentRenderer {
	return []port.DocumentRenderer{
		NewPDFRenderer(tpl),
		NewXLSXRenderer(tpl),
		NewCSVRenderer(tpl),
	}
}
