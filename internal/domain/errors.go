package domain

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")

	ErrEmptyToken   = errors.New("empty token")
	ErrInvalidToken = errors.New("invalid token")

	ErrReportNotFound = errors.New("report not found")
	ErrReportCreate   = errors.New("error creating report")
	ErrReportUpdate   = errors.New("error updating report")
	ErrReportDelete   = errors.New("error deleting report")

	ErrNoOrders          = errors.New("no completed orders found for partner in period")
	ErrDateRangeTooWide  = errors.New("date range exceeds the maximum of 31 days")
	ErrInvalidDateRange  = errors.New("end date is before start date")
	ErrUnsupportedFormat = errors.New("unsupported report format")
)
