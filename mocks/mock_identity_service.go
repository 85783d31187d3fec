package mocks

import (
	"github.com/stretchr/testify/mock"

	"reportsvc/internal/domain"
)

// MockIdentityService is a mock implementation of service.IdentityService.
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Decode(authorization string) (*domain.Identity, error) {
	args := m.Called(authorization)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
