package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"reportsvc/internal/domain"
)

// OrderRepository reads completed orders owned by the order subsystem.
type OrderRepository interface {
	ListCompletedByPartner(ctx context.Context, partnerID uuid.UUID, start, end time.Time) ([]domain.Order, error)
}
