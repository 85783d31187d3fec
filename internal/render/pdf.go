package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"reportsvc/internal/domain"
	"reportsvc/internal/port"
)

const (
	pageMargin   = 10.0
	footerMargin = 15.0
	rowHeight    = 6.0
)

// PDFRenderer renders the partner order report as a PDF document.
type PDFRenderer struct {
	tpl *Template
}

// NewPDFRenderer creates a PDF renderer for tpl. The template is never
// mutated, so the renderer is safe for concurrent use.
func NewPDFRenderer(tpl *Template) port.DocumentRenderer {
	return &PDFRenderer{tpl: tpl}
}

func (r *PDFRenderer) Format() domain.ReportFormat { return domain.FormatPDF }

func (r *PDFRenderer) Render(orders []domain.Order, filters *domain.PartnerReportFilters) ([]byte, error) {
	b, err := bind(r.tpl, orders, filters)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New(r.tpl.Orientation, "mm", r.tpl.PageSize, "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, footerMargin)
	pdf.SetTitle(r.tpl.Title, true)
	pdf.SetCreator("reportsvc", true)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	footer := strings.ReplaceAll(r.tpl.Footer, "{TotalPages}", "{nb}")
	pdf.SetFooterFunc(func() {
		if footer == "" {
			return
		}
		pdf.SetY(-footerMargin + 3)
		pdf.SetFont(r.tpl.Font, "I", r.tpl.FontSize-1)
		pdf.CellFormat(0, 8, strings.ReplaceAll(footer, "{PageNumber}", strconv.Itoa(pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont(r.tpl.Font, "B", r.tpl.FontSize+6)
	pdf.CellFormat(0, 10, tr(b.params.Expand(r.tpl.Title)), "", 1, "L", false, 0, "")
	pdf.SetFont(r.tpl.Font, "", r.tpl.FontSize+1)
	for _, line := range r.tpl.Header {
		pdf.CellFormat(0, rowHeight, tr(b.params.Expand(line)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	writeHeader := func() {
		pdf.SetFont(r.tpl.Font, "B", r.tpl.FontSize)
		pdf.SetFillColor(230, 230, 230)
		for i, text := range b.headerRow() {
			pdf.CellFormat(r.tpl.Columns[i].Width, rowHeight+1, tr(text), "1", 0, r.tpl.Columns[i].Align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(r.tpl.Font, "", r.tpl.FontSize)
	}
	writeHeader()

	_, pageHeight := pdf.GetPageSize()
	for i := 0; i < b.data.Len(); i++ {
		if pdf.GetY()+rowHeight > pageHeight-footerMargin {
			pdf.AddPage()
			writeHeader()
		}
		for j, text := range b.dataRow(i) {
			pdf.CellFormat(r.tpl.Columns[j].Width, rowHeight, tr(text), "1", 0, r.tpl.Columns[j].Align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if r.tpl.HasTotals() {
		pdf.SetFont(r.tpl.Font, "B", r.tpl.FontSize)
		for j, text := range b.totalsRow() {
			pdf.CellFormat(r.tpl.Columns[j].Width, rowHeight, tr(text), "1", 0, r.tpl.Columns[j].Align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}
