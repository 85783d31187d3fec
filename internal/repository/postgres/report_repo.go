package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"reportsvc/internal/domain"
	"reportsvc/internal/logger"
	"reportsvc/internal/port"
)

const (
	reportColumns = `report_id, name, description, created_by, created_at, updated_by, updated_at, active`
	filterColumns = `report_filter_id, filter_name, report_id, position, created_by, created_at, updated_by, updated_at`
)

type reportRepo struct {
	db  *sqlx.DB
	log logrus.FieldLogger
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB, log logrus.FieldLogger) port.ReportRepository {
	return &reportRepo{db: db, log: log}
}

// reportDBRow is an intermediate struct for scanning a report with its
// filters aggregated into a JSON array.
type reportDBRow struct {
	ID          uuid.UUID  `db:"report_id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	CreatedBy   uuid.UUID  `db:"created_by"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedBy   *uuid.UUID `db:"updated_by"`
	UpdatedAt   *time.Time `db:"updated_at"`
	Active      bool       `db:"active"`
	Filters     []byte     `db:"filters"`
}

func (row *reportDBRow) toDomain() (domain.Report, error) {
	filters := []domain.Filter{}
	if len(row.Filters) > 0 {
		if err := json.Unmarshal(row.Filters, &filters); err != nil {
			return domain.Report{}, fmt.Errorf("decoding filters of report %s: %w", row.ID, err)
		}
		if filters == nil {
			filters = []domain.Filter{}
		}
	}
	return domain.Report{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedBy:   row.UpdatedBy,
		UpdatedAt:   row.UpdatedAt,
		Active:      row.Active,
		Filters:     filters,
	}, nil
}

func (r *reportRepo) Create(ctx context.Context, req *domain.ReportRequest) (*domain.Report, error) {
	now := time.Now().UTC()
	var created *domain.Report

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var report domain.Report
		err := tx.GetContext(ctx, &report,
			`INSERT INTO report.report (report_id, name, description, created_by, created_at, active)
			 VALUES ($1, $2, $3, $4, $5, TRUE)
			 RETURNING `+reportColumns,
			uuid.New(), req.Name, req.Description, req.CreatedBy, now)
		if err != nil {
			return fmt.Errorf("%w: inserting report: %w", domain.ErrReportCreate, err)
		}

		filters := make([]domain.Filter, 0, len(req.Filters))
		for i := range req.Filters {
			var filter domain.Filter
			err := tx.GetContext(ctx, &filter,
				`INSERT INTO report.report_filter (report_filter_id, filter_name, report_id, position, created_by, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 RETURNING `+filterColumns,
				uuid.New(), req.Filters[i].Name, report.ID, i, req.CreatedBy, now)
			if err != nil {
				return fmt.Errorf("%w: inserting filter %d: %w", domain.ErrReportCreate, i, err)
			}
			filters = append(filters, filter)
		}

		if report.ID == uuid.Nil || len(filters) != len(req.Filters) {
			return fmt.Errorf("%w: inserted %d of %d filters", domain.ErrReportCreate, len(filters), len(req.Filters))
		}

		report.Filters = filters
		created = &report
		return nil
	})
	if err != nil {
		logger.LogError(r.log, "reportRepo", "Create", "creating report with filters", req.Name, err)
		return nil, fmt.Errorf("reportRepo.Create: %w", err)
	}
	return created, nil
}

func (r *reportRepo) List(ctx context.Context, p domain.Pagination) (*domain.ReportList, error) {
	p = p.Normalize(domain.DefaultItemsPerPage, domain.MaxItemsPerPage)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM report.report`); err != nil {
		logger.LogError(r.log, "reportRepo", "List", "counting reports", nil, err)
		return nil, fmt.Errorf("reportRepo.List count: %w", err)
	}

	list := &domain.ReportList{
		Reports:    []domain.Report{},
		Pagination: domain.NewPageInfo(total, p.ItemsPerPage),
	}
	if total == 0 {
		return list, nil
	}

	var rows []reportDBRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT r.report_id, r.name, r.description, r.created_by, r.created_at, r.updated_by, r.updated_at, r.active,
			COALESCE((SELECT json_agg(f ORDER BY f.position)
				FROM report.report_filter f
				WHERE f.report_id = r.report_id), '[]'::json) AS filters
		 FROM report.report r
		 ORDER BY r.created_at DESC, r.report_id
		 LIMIT $1 OFFSET $2`,
		p.ItemsPerPage, p.Offset())
	if err != nil {
		logger.LogError(r.log, "reportRepo", "List", "listing reports", p, err)
		return nil, fmt.Errorf("reportRepo.List: %w", err)
	}

	for i := range rows {
		report, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("reportRepo.List: %w", err)
		}
		list.Reports = append(list.Reports, report)
	}
	return list, nil
}

func (r *reportRepo) GetByID(ctx context.Context, reportID uuid.UUID) (*domain.Report, error) {
	var row reportDBRow
	err := r.db.GetContext(ctx, &row,
		`SELECT r.report_id, r.name, r.description, r.created_by, r.created_at, r.updated_by, r.updated_at, r.active,
			COALESCE((SELECT json_agg(json_build_object('filter_name', f.filter_name) ORDER BY f.position)
				FROM report.report_filter f
				WHERE f.report_id = r.report_id), '[]'::json) AS filters
		 FROM report.report r
		 WHERE r.report_id = $1`,
		reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}

	report, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}
	return &report, nil
}

func (r *reportRepo) Update(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	now := time.Now().UTC()
	var updated *domain.Report

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var row domain.Report
		err := tx.GetContext(ctx, &row,
			`UPDATE report.report
			 SET name = $1, description = $2, updated_by = $3, updated_at = $4
			 WHERE report_id = $5
			 RETURNING `+reportColumns,
			report.Name, report.Description, report.UpdatedBy, now, report.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %w", domain.ErrReportUpdate, domain.ErrReportNotFound)
			}
			return fmt.Errorf("%w: updating report: %w", domain.ErrReportUpdate, err)
		}

		filters := make([]domain.Filter, 0, len(report.Filters))
		for i := range report.Filters {
			var filter domain.Filter
			err := tx.GetContext(ctx, &filter,
				`UPDATE report.report_filter
				 SET filter_name = $1, updated_by = $2, updated_at = $3
				 WHERE report_filter_id = $4 AND report_id = $5
				 RETURNING `+filterColumns,
				report.Filters[i].Name, report.UpdatedBy, now, report.Filters[i].ID, report.ID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					continue
				}
				return fmt.Errorf("%w: updating filter %s: %w", domain.ErrReportUpdate, report.Filters[i].ID, err)
			}
			filters = append(filters, filter)
		}

		if len(filters) != len(report.Filters) {
			return fmt.Errorf("%w: updated %d of %d filters", domain.ErrReportUpdate, len(filters), len(report.Filters))
		}

		row.Filters = filters
		updated = &row
		return nil
	})
	if err != nil {
		logger.LogError(r.log, "reportRepo", "Update", "updating report with filters", report.ID.String(), err)
		return nil, fmt.Errorf("reportRepo.Update: %w", err)
	}
	return updated, nil
}

// DeleteByIDs deletes every listed report in one transaction. It returns
// false, and deletes nothing, when the list is empty or any id has no row.
// Filter rows are left in place.
func (r *reportRepo) DeleteByIDs(ctx context.Context, reportIDs []uuid.UUID) (bool, error) {
	ids := uniqueIDs(reportIDs)
	if len(ids) == 0 {
		return false, nil
	}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, id := range ids {
			result, err := tx.ExecContext(ctx, `DELETE FROM report.report WHERE report_id = $1`, id)
			if err != nil {
				return fmt.Errorf("%w: deleting report %s: %w", domain.ErrReportDelete, id, err)
			}
			rows, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("%w: %w", domain.ErrReportDelete, err)
			}
			if rows == 0 {
				return fmt.Errorf("%w: %s", domain.ErrReportNotFound, id)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			r.log.WithField("module", "reportRepo").WithError(err).Warn("delete rolled back")
			return false, nil
		}
		logger.LogError(r.log, "reportRepo", "DeleteByIDs", "deleting reports", ids, err)
		return false, fmt.Errorf("reportRepo.DeleteByIDs: %w", err)
	}
	return true, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
