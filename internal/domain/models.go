package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report is a user-defined, named collection of filters.
type Report struct {
	ID          uuid.UUID  `db:"report_id" json:"report_id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	CreatedBy   uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedBy   *uuid.UUID `db:"updated_by" json:"updated_by"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at"`
	Active      bool       `db:"active" json:"active"`
	Filters     []Filter   `db:"-" json:"filters"`
}

// Filter is a named sub-item owned by exactly one report.
type Filter struct {
	ID        uuid.UUID  `db:"report_filter_id" json:"report_filter_id"`
	Name      string     `db:"filter_name" json:"filter_name"`
	ReportID  uuid.UUID  `db:"report_id" json:"report_id"`
	Position  int        `db:"position" json:"position"`
	CreatedBy uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedBy *uuid.UUID `db:"updated_by" json:"updated_by"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at"`
}

// FilterRequest names a filter to create.
type FilterRequest struct {
	Name string `json:"filter_name" binding:"required"`
}

// ReportRequest is the DTO for creating a report. CreatedBy is stamped
// server-side from the caller's identity and never read from the body.
type ReportRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Filters     []FilterRequest `json:"filters" binding:"dive"`
	CreatedBy   uuid.UUID       `json:"-"`
}

// FilterUpdate renames an existing filter.
type FilterUpdate struct {
	ID   uuid.UUID `json:"report_filter_id" binding:"required"`
	Name string    `json:"filter_name" binding:"required"`
}

// UpdateReportRequest is the DTO for updating a report and its filters.
type UpdateReportRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Filters     []FilterUpdate `json:"filters" binding:"dive"`
}

// DeleteReportsRequest is the DTO for deleting reports in bulk.
type DeleteReportsRequest struct {
	ReportIDs []uuid.UUID `json:"report_ids" binding:"required,min=1"`
}

// Identity is the caller resolved from a verified token. It is never persisted.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	RoleID uuid.UUID `json:"role_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}
