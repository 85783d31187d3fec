package port

import "reportsvc/internal/domain"

// DocumentRenderer turns a partner's order lines into a downloadable document.
type DocumentRenderer interface {
	Render(orders []domain.Order, filters *domain.PartnerReportFilters) ([]byte, error)
	Format() domain.ReportFormat
}
