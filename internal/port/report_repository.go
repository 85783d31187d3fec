package port

import (
	"context"

	"github.com/google/uuid"

	"reportsvc/internal/domain"
)

// ReportRepository persists reports together with their filters.
type ReportRepository interface {
	Create(ctx context.Context, req *domain.ReportRequest) (*domain.Report, error)
	List(ctx context.Context, p domain.Pagination) (*domain.ReportList, error)
	GetByID(ctx context.Context, reportID uuid.UUID) (*domain.Report, error)
	Update(ctx context.Context, report *domain.Report) (*domain.Report, error)
	DeleteByIDs(ctx context.Context, reportIDs []uuid.UUID) (bool, error)
}
