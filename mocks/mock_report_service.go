package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"reportsvc/internal/domain"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) CreateReport(ctx context.Context, req *domain.ReportRequest, authorization string) (*domain.Report, error) {
	args := m.Called(ctx, req, authorization)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) UpdateReport(ctx context.Context, reportID uuid.UUID, req *domain.UpdateReportRequest, authorization string) (*domain.Report, error) {
	args := m.Called(ctx, reportID, req, authorization)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) ListReports(ctx context.Context, p domain.Pagination) (*domain.ReportList, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportList), args.Error(1)
}

func (m *MockReportService) GetReport(ctx context.Context, reportID uuid.UUID) (*domain.Report, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) DeleteReports(ctx context.Context, reportIDs []uuid.UUID) error {
	args := m.Called(ctx, reportIDs)
	return args.Error(0)
}

func (m *MockReportService) GeneratePartnerReport(ctx context.Context, filters *domain.PartnerReportFilters) (*domain.RenderedDocument, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RenderedDocument), args.Error(1)
}
