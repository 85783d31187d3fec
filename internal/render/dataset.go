package render

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"reportsvc/internal/domain"
)

// DataSourceName is the name the order dataset is registered under.
const DataSourceName = "orders_orders"

type orderField struct {
	text   func(o *domain.Order, dateFormat string) string
	number func(o *domain.Order) decimal.Decimal
}

func money(get func(o *domain.Order) decimal.Decimal) orderField {
	return orderField{
		text:   func(o *domain.Order, _ string) string { return get(o).StringFixed(2) },
		number: get,
	}
}

var orderFields = map[string]orderField{
	"order_number": {
		text: func(o *domain.Order, _ string) string { return strconv.FormatInt(o.OrderNumber, 10) },
	},
	"created_at": {
		text: func(o *domain.Order, layout string) string { return o.CreatedAt.Format(layout) },
	},
	"legal_name": {
		text: func(o *domain.Order, _ string) string { return o.LegalName },
	},
	"amount":      money(func(o *domain.Order) decimal.Decimal { return o.Amount }),
	"service_fee": money(func(o *domain.Order) decimal.Decimal { return o.ServiceFee }),
	"card_fee":    money(func(o *domain.Order) decimal.Decimal { return o.CardFee }),
	"fee":         money(func(o *domain.Order) decimal.Decimal { return o.Fee }),
}

// Dataset is the order table bound to a template.
type Dataset struct {
	Name string
	rows []domain.Order
}

// NewDataset registers orders as the report's data source.
func NewDataset(orders []domain.Order) (*Dataset, error) {
	if len(orders) == 0 {
		return nil, domain.ErrNoOrders
	}
	return &Dataset{Name: DataSourceName, rows: orders}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Text returns the display value of field in row.
func (d *Dataset) Text(row int, field, dateFormat string) string {
	f, ok := orderFields[field]
	if !ok {
		return ""
	}
	return f.text(&d.rows[row], dateFormat)
}

// Number returns the numeric value of field in row, if the field is numeric.
func (d *Dataset) Number(row int, field string) (decimal.Decimal, bool) {
	f, ok := orderFields[field]
	if !ok || f.number == nil {
		return decimal.Zero, false
	}
	return f.number(&d.rows[row]), true
}

// Total sums a numeric field over every row.
func (d *Dataset) Total(field string) decimal.Decimal {
	total := decimal.Zero
	for i := range d.rows {
		if v, ok := d.Number(i, field); ok {
			total = total.Add(v)
		}
	}
	return total
}

// Parameters are the scalar values substituted into template text.
type Parameters struct {
	PartnerName string
	StartDate   string
	EndDate     string
}

// NewParameters takes the partner name from the first order and formats the
// report window with dateFormat.
func NewParameters(d *Dataset, filters *domain.PartnerReportFilters, dateFormat string) Parameters {
	return Parameters{
		PartnerName: d.rows[0].LegalName,
		StartDate:   filters.StartDate.Format(dateFormat),
		EndDate:     filters.EndDate.Format(dateFormat),
	}
}

// Expand replaces {PartnerName}, {StartDate} and {EndDate} in s.
func (p Parameters) Expand(s string) string {
	return strings.NewReplacer(
		"{PartnerName}", p.PartnerName,
		"{StartDate}", p.StartDate,
		"{EndDate}", p.EndDate,
	).Replace(s)
}

// boundReport is a template with its data source and parameters resolved.
type boundReport struct {
	tpl    *Template
	data   *Dataset
	params Parameters
}

func bind(tpl *Template, orders []domain.Order, filters *domain.PartnerReportFilters) (*boundReport, error) {
	data, err := NewDataset(orders)
	if err != nil {
		return nil, err
	}
	return &boundReport{
		tpl:    tpl,
		data:   data,
		params: NewParameters(data, filters, tpl.DateFormat),
	}, nil
}

func (b *boundReport) headerRow() []string {
	row := make([]string, len(b.tpl.Columns))
	for i, c := range b.tpl.Columns {
		row[i] = c.Header
	}
	return row
}

func (b *boundReport) dataRow(i int) []string {
	row := make([]string, len(b.tpl.Columns))
	for j, c := range b.tpl.Columns {
		row[j] = b.data.Text(i, c.Field, b.tpl.DateFormat)
	}
	return row
}

// totalsRow places the totals label in the first column and the sum under
// every totalled column.
func (b *boundReport) totalsRow() []string {
	row := make([]string, len(b.tpl.Columns))
	for j, c := range b.tpl.Columns {
		if c.Total {
			row[j] = b.data.Total(c.Field).StringFixed(2)
		}
	}
	if row[0] == "" {
		row[0] = b.tpl.TotalsLabel
	}
	return row
}
