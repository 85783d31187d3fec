package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxPartnerReportDays is the widest window a partner report may span.
const MaxPartnerReportDays = 31

// Order is a completed order line aggregated for a partner report.
type Order struct {
	OrderNumber int64           `json:"order_number"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
	CardFee     decimal.Decimal `json:"card_fee"`
	Fee         decimal.Decimal `json:"fee"`
	LegalName   string          `json:"legal_name"`
}

// OrderFee returns amount × (serviceFee + cardFee) without rounding.
func OrderFee(amount, serviceFee, cardFee decimal.Decimal) decimal.Decimal {
	return amount.Mul(serviceFee.Add(cardFee))
}

// PartnerReportFilters selects the orders of one partner in a date window.
type PartnerReportFilters struct {
	PartnerID uuid.UUID    `json:"partner_id"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Format    ReportFormat `json:"format"`
}

// Validate checks the date window: end may not precede start and the span
// may not exceed MaxPartnerReportDays whole days.
func (f *PartnerReportFilters) Validate() error {
	if f.EndDate.Before(f.StartDate) {
		return ErrInvalidDateRange
	}
	days := int(f.EndDate.Sub(f.StartDate) / (24 * time.Hour))
	if days > MaxPartnerReportDays {
		return ErrDateRangeTooWide
	}
	return nil
}

// PartnerReportWindow resolves optional start and end dates. A missing start
// defaults to MaxPartnerReportDays before today at midnight and a missing end
// defaults to now. A supplied end date covers its whole day.
func PartnerReportWindow(start, end *time.Time, now time.Time) (from, to time.Time) {
	now = now.UTC()
	if start != nil {
		from = startOfDay(start.UTC())
	} else {
		from = startOfDay(now).AddDate(0, 0, -MaxPartnerReportDays)
	}
	if end != nil {
		to = startOfDay(end.UTC()).Add(24*time.Hour - time.Second)
	} else {
		to = now
	}
	return from, to
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RenderedDocument is a generated partner report ready for download.
type RenderedDocument struct {
	Content     []byte
	ContentType string
	FileName    string
	ArchiveKey  string
}
