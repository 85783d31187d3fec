package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"reportsvc/internal/domain"
	"reportsvc/internal/logger"
	"reportsvc/internal/port"
)

type orderRepo struct {
	db                *sqlx.DB
	completedStatusID uuid.UUID
	log               logrus.FieldLogger
}

// NewOrderRepo creates a PostgreSQL-backed OrderRepository. Only orders in
// completedStatusID are ever returned.
func NewOrderRepo(db *sqlx.DB, completedStatusID uuid.UUID, log logrus.FieldLogger) port.OrderRepository {
	return &orderRepo{db: db, completedStatusID: completedStatusID, log: log}
}

// orderDBRow is an intermediate struct for scanning joined order rows.
type orderDBRow struct {
	OrderNumber int64           `db:"order_number"`
	Amount      decimal.Decimal `db:"amount"`
	CreatedAt   time.Time       `db:"created_at"`
	ServiceFee  decimal.Decimal `db:"service_fee"`
	CardFee     decimal.Decimal `db:"card_fee"`
	LegalName   string          `db:"legal_name"`
}

func (r *orderRepo) ListCompletedByPartner(ctx context.Context, partnerID uuid.UUID, start, end time.Time) ([]domain.Order, error) {
	if start.After(end) {
		return []domain.Order{}, nil
	}

	var dbRows []orderDBRow
	err := r.db.SelectContext(ctx, &dbRows,
		`SELECT o.order_number, o.amount, o.created_at, o.service_fee, o.card_fee, p.legal_name
		 FROM orders.orders o
		 INNER JOIN partner.branch b ON b.branch_id = o.branch_id
		 INNER JOIN partner.partner p ON p.partner_id = b.partner_id
		 WHERE p.partner_id = $1
		   AND o.created_at BETWEEN $2 AND $3
		   AND o.order_status_id = $4
		 ORDER BY o.order_number ASC`,
		partnerID, start, end, r.completedStatusID)
	if err != nil {
		logger.LogError(r.log, "orderRepo", "ListCompletedByPartner", "aggregating partner orders", partnerID.String(), err)
		return nil, fmt.Errorf("orderRepo.ListCompletedByPartner: %w", err)
	}

	orders := make([]domain.Order, len(dbRows))
	for i := range dbRows {
		orders[i] = domain.Order{
			OrderNumber: dbRows[i].OrderNumber,
			Amount:      dbRows[i].Amount,
			CreatedAt:   dbRows[i].CreatedAt,
			ServiceFee:  dbRows[i].ServiceFee,
			CardFee:     dbRows[i].CardFee,
			Fee:         domain.OrderFee(dbRows[i].Amount, dbRows[i].ServiceFee, dbRows[i].CardFee),
			LegalName:   dbRows[i].LegalName,
		}
	}
	return orders, nil
}
