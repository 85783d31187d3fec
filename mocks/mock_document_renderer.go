package mocks

import (
	"github.com/stretchr/testify/mock"

	"reportsvc/internal/domain"
)

// MockDocumentRenderer is a mock implementation of port.DocumentRenderer.
type MockDocumentRenderer struct {
	mock.Mock
}

func (m *MockDocumentRenderer) Render(orders []domain.Order, filters *domain.PartnerReportFilters) ([]byte, error) {
	args := m.Called(orders, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDocumentRenderer) Format() domain.ReportFormat {
	args := m.Called()
	return args.Get(0).(domain.ReportFormat)
}
