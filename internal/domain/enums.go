package domain

// ReportFormat is the output format of a partner report.
type ReportFormat string

const (
	FormatPDF  ReportFormat = "pdf"
	FormatXLSX ReportFormat = "xlsx"
	FormatCSV  ReportFormat = "csv"
)

// ReportContentTypes maps each format to its MIME content type.
var ReportContentTypes = map[ReportFormat]string{
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatCSV:  "text/csv; charset=utf-8",
}

// ParseReportFormat resolves a user-supplied format, defaulting to PDF.
func ParseReportFormat(s string) (ReportFormat, error) {
	if s == "" {
		return FormatPDF, nil
	}
	f := ReportFormat(s)
	if _, ok := ReportContentTypes[f]; !ok {
		return "", ErrUnsupportedFormat
	}
	return f, nil
}
