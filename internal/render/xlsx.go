package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"reportsvc/internal/domain"
	"reportsvc/internal/port"
)

const sheetName = "Orders"

// XLSXRenderer exports the partner order report as a spreadsheet.
type XLSXRenderer struct {
	tpl *Template
}

// NewXLSXRenderer creates a spreadsheet renderer for tpl.
func NewXLSXRenderer(tpl *Template) port.DocumentRenderer {
	return &XLSXRenderer{tpl: tpl}
}

func (r *XLSXRenderer) Format() domain.ReportFormat { return domain.FormatXLSX }

func (r *XLSXRenderer) Render(orders []domain.Order, filters *domain.PartnerReportFilters) ([]byte, error) {
	b, err := bind(r.tpl, orders, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	rowNo := 1
	set := func(col int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col, rowNo)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, cell, value)
	}
	boldRow := func() error {
		first, _ := excelize.CoordinatesToCellName(1, rowNo)
		last, _ := excelize.CoordinatesToCellName(len(r.tpl.Columns), rowNo)
		return f.SetCellStyle(sheetName, first, last, bold)
	}

	if err := set(1, b.params.Expand(r.tpl.Title)); err != nil {
		return nil, err
	}
	rowNo++
	for _, line := range r.tpl.Header {
		if err := set(1, b.params.Expand(line)); err != nil {
			return nil, err
		}
		rowNo++
	}
	rowNo++

	for j, text := range b.headerRow() {
		if err := set(j+1, text); err != nil {
			return nil, err
		}
		col, _ := excelize.ColumnNumberToName(j + 1)
		if err := f.SetColWidth(sheetName, col, col, r.tpl.Columns[j].Width/2); err != nil {
			return nil, err
		}
	}
	if err := boldRow(); err != nil {
		return nil, err
	}
	rowNo++

	for i := 0; i < b.data.Len(); i++ {
		for j, c := range r.tpl.Columns {
			var value any = b.data.Text(i, c.Field, r.tpl.DateFormat)
			if n, ok := b.data.Number(i, c.Field); ok {
				value = n.InexactFloat64()
			}
			if err := set(j+1, value); err != nil {
				return nil, err
			}
		}
		rowNo++
	}

	if r.tpl.HasTotals() {
		for j, c := range r.tpl.Columns {
			var value any
			switch {
			case c.Total:
				value = b.data.Total(c.Field).InexactFloat64()
			case j == 0:
				value = r.tpl.TotalsLabel
			default:
				continue
			}
			if err := set(j+1, value); err != nil {
				return nil, err
			}
		}
		if err := boldRow(); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
