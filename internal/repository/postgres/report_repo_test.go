package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportsvc/internal/domain"
	"reportsvc/internal/logger"
	"reportsvc/internal/port"
	"reportsvc/internal/repository/postgres"
)

var (
	reportCols = []string{"report_id", "name", "description", "created_by", "created_at", "updated_by", "updated_at", "active"}
	filterCols = []string{"report_filter_id", "filter_name", "report_id", "position", "created_by", "created_at", "updated_by", "updated_at"}
	listCols   = append(append([]string{}, reportCols...), "filters")
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func newReportRepo(t *testing.T) (port.ReportRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return postgres.NewReportRepo(db, logger.Discard()), mock
}

var (
	insertReportSQL = regexp.QuoteMeta("INSERT INTO report.report (")
	insertFilterSQL = regexp.QuoteMeta("INSERT INTO report.report_filter (")
	updateReportSQL = regexp.QuoteMeta("SET name = $1, description = $2")
	updateFilterSQL = regexp.QuoteMeta("UPDATE report.report_filter")
	countSQL        = regexp.QuoteMeta("SELECT COUNT(*) FROM report.report")
	deleteSQL       = regexp.QuoteMeta("DELETE FROM report.report WHERE report_id = $1")
)

func TestReportRepo_Create_PersistsReportAndFilters(t *testing.T) {
	repo, mock := newReportRepo(t)

	creator := uuid.New()
	reportID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(insertReportSQL).
		WithArgs(sqlmock.AnyArg(), "Monthly", "monthly numbers", creator, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(reportCols).
			AddRow(reportID.String(), "Monthly", "monthly numbers", creator.String(), now, nil, nil, true))
	for i, name := range []string{"A", "B"} {
		mock.ExpectQuery(insertFilterSQL).
			WithArgs(sqlmock.AnyArg(), name, reportID, i, creator, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(filterCols).
				AddRow(uuid.New().String(), name, reportID.String(), i, creator.String(), now, nil, nil))
	}
	mock.ExpectCommit()

	report, err := repo.Create(context.Background(), &domain.ReportRequest{
		Name:        "Monthly",
		Description: "monthly numbers",
		Filters:     []domain.FilterRequest{{Name: "A"}, {Name: "B"}},
		CreatedBy:   creator,
	})

	require.NoError(t, err)
	assert.Equal(t, reportID, report.ID)
	assert.Equal(t, creator, report.CreatedBy)
	assert.True(t, report.Active)
	require.Len(t, report.Filters, 2)
	assert.Equal(t, "A", report.Filters[0].Name)
	assert.Equal(t, "B", report.Filters[1].Name)
	assert.Equal(t, 1, report.Filters[1].Position)
	for _, f := range report.Filters {
		assert.Equal(t, reportID, f.ReportID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_Create_NoFilters(t *testing.T) {
	repo, mock := newReportRepo(t)

	creator := uuid.New()
	reportID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(insertReportSQL).
		WillReturnRows(sqlmock.NewRows(reportCols).
			AddRow(reportID.String(), "Empty", "", creator.String(), time.Now(), nil, nil, true))
	mock.ExpectCommit()

	report, err := repo.Create(context.Background(), &domain.ReportRequest{Name: "Empty", CreatedBy: creator})

	require.NoError(t, err)
	assert.NotNil(t, report.Filters)
	assert.Empty(t, report.Filters)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_Create_FilterFailureRollsBack(t *testing.T) {
	repo, mock := newReportRepo(t)

	creator := uuid.New()
	reportID := uuid.New()
	dbErr := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery(insertReportSQL).
		WillReturnRows(sqlmock.NewRows(reportCols).
			AddRow(reportID.String(), "Monthly", "", creator.String(), time.Now(), nil, nil, true))
	mock.ExpectQuery(insertFilterSQL).
		WillReturnRows(sqlmock.NewRows(filterCols).
			AddRow(uuid.New().String(), "A", reportID.String(), 0, creator.String(), time.Now(), nil, nil))
	mock.ExpectQuery(insertFilterSQL).WillReturnError(dbErr)
	mock.ExpectRollback()

	report, err := repo.Create(context.Background(), &domain.ReportRequest{
		Name:      "Monthly",
		Filters:   []domain.FilterRequest{{Name: "A"}, {Name: "B"}},
		CreatedBy: creator,
	})

	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrReportCreate)
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_Create_ReportInsertFailureRollsBack(t *testing.T) {
	repo, mock := newReportRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertReportSQL).WillReturnError(errors.New("unique violation"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &domain.ReportRequest{
		Name:      "Monthly",
		Filters:   []domain.FilterRequest{{Name: "A"}},
		CreatedBy: uuid.New(),
	})

	assert.ErrorIs(t, err, domain.ErrReportCreate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_List_EmptyStore(t *testing.T) {
	repo, mock := newReportRepo(t)

	mock.ExpectQuery(countSQL).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, err := repo.List(context.Background(), domain.Pagination{Page: 1, ItemsPerPage: 5})

	require.NoError(t, err)
	assert.Equal(t, 0, list.Pagination.TotalRows)
	assert.Equal(t, 0, list.Pagination.TotalPages)
	assert.NotNil(t, list.Reports)
	assert.Empty(t, list.Reports)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_List_SlicesRequestedPage(t *testing.T) {
	repo, mock := newReportRepo(t)

	creator := uuid.New()
	withFilters := uuid.New()
	withoutFilters := uuid.New()
	filterID := uuid.New()
	filtersJSON := fmt.Sprintf(`[{"report_filter_id":%q,"filter_name":"Region","report_id":%q,"position":0,"created_by":%q,"created_at":"2024-05-01T10:00:00+00:00","updated_by":null,"updated_at":null}]`,
		filterID, withFilters, creator)

	mock.ExpectQuery(countSQL).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(5, 5).
		WillReturnRows(sqlmock.NewRows(listCols).
			AddRow(withFilters.String(), "Sales", "", creator.String(), time.Now(), nil, nil, true, []byte(filtersJSON)).
			AddRow(withoutFilters.String(), "Stock", "", creator.String(), time.Now(), nil, nil, true, []byte(`[]`)))

	list, err := repo.List(context.Background(), domain.Pagination{Page: 2, ItemsPerPage: 5})

	require.NoError(t, err)
	assert.Equal(t, 7, list.Pagination.TotalRows)
	assert.Equal(t, 2, list.Pagination.TotalPages)
	require.Len(t, list.Reports, 2)
	require.Len(t, list.Reports[0].Filters, 1)
	assert.Equal(t, filterID, list.Reports[0].Filters[0].ID)
	assert.Equal(t, "Region", list.Reports[0].Filters[0].Name)
	assert.Equal(t, withFilters, list.Reports[0].Filters[0].ReportID)
	assert.NotNil(t, list.Reports[1].Filters)
	assert.Empty(t, list.Reports[1].Filters)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_List_CountError(t *testing.T) {
	repo, mock := newReportRepo(t)

	mock.ExpectQuery(countSQL).WillReturnError(errors.New("db down"))

	list, err := repo.List(context.Background(), domain.Pagination{})
	assert.Nil(t, list)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_GetByID_Found(t *testing.T) {
	repo, mock := newReportRepo(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.report_id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(listCols).
			AddRow(id.String(), "Sales", "d", uuid.New().String(), time.Now(), nil, nil, true,
				[]byte(`[{"filter_name":"A"},{"filter_name":"B"}]`)))

	report, err := repo.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, report.ID)
	require.Len(t, report.Filters, 2)
	assert.Equal(t, "A", report.Filters[0].Name)
	assert.Equal(t, uuid.Nil, report.Filters[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_GetByID_NotFound(t *testing.T) {
	repo, mock := newReportRepo(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.report_id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(listCols))

	report, err := repo.GetByID(context.Background(), id)

	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_Update_Success(t *testing.T) {
	repo, mock := newReportRepo(t)

	reportID := uuid.New()
	filterID := uuid.New()
	editor := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(updateReportSQL).
		WithArgs("Renamed", "new description", editor, sqlmock.AnyArg(), reportID).
		WillReturnRows(sqlmock.NewRows(reportCols).
			AddRow(reportID.String(), "Renamed", "new description", uuid.New().String(), now, editor.String(), now, true))
	mock.ExpectQuery(updateFilterSQL).
		WithArgs("Region", editor, sqlmock.AnyArg(), filterID, reportID).
		WillReturnRows(sqlmock.NewRows(filterCols).
			AddRow(filterID.String(), "Region", reportID.String(), 0, uuid.New().String(), now, editor.String(), now))
	mock.ExpectCommit()

	updated, err := repo.Update(context.Background(), &domain.Report{
		ID:          reportID,
		Name:        "Renamed",
		Description: "new description",
		UpdatedBy:   &editor,
		Filters:     []domain.Filter{{ID: filterID, Name: "Region"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, editor, *updated.UpdatedBy)
	require.Len(t, updated.Filters, 1)
	assert.Equal(t, "Region", updated.Filters[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_Update_ReportNotFoundRollsBack(t *testing.T) {
	repo, mock := newReportRepo(t)

	editor := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(updateReportSQL).WillReturnRows(sqlmock.NewRows(reportCols))
	mock.ExpectRollback()

	updated, err := repo.Update(context.Background(), &domain.Report{ID: uuid.New(), Name: "x", UpdatedBy: &editor})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrReportUpdate)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_Update_FilterMismatchRollsBack(t *testing.T) {
	repo, mock := newReportRepo(t)

	reportID := uuid.New()
	editor := uuid.New()
	now := time.Now().UTC()
	known := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(updateReportSQL).
		WillReturnRows(sqlmock.NewRows(reportCols).
			AddRow(reportID.String(), "x", "", uuid.New().String(), now, editor.String(), now, true))
	mock.ExpectQuery(updateFilterSQL).
		WillReturnRows(sqlmock.NewRows(filterCols).
			AddRow(known.String(), "A", reportID.String(), 0, uuid.New().String(), now, editor.String(), now))
	// filter belonging to another report matches nothing
	mock.ExpectQuery(updateFilterSQL).WillReturnRows(sqlmock.NewRows(filterCols))
	mock.ExpectRollback()

	updated, err := repo.Update(context.Background(), &domain.Report{
		ID:        reportID,
		Name:      "x",
		UpdatedBy: &editor,
		Filters:   []domain.Filter{{ID: known, Name: "A"}, {ID: uuid.New(), Name: "B"}},
	})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrReportUpdate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_DeleteByIDs_DeletesEachID(t *testing.T) {
	repo, mock := newReportRepo(t)

	first, second := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(deleteSQL).WithArgs(first).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteSQL).WithArgs(second).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.DeleteByIDs(context.Background(), []uuid.UUID{first, second, first})

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_DeleteByIDs_MissingIDRollsBack(t *testing.T) {
	repo, mock := newReportRepo(t)

	first, missing := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(deleteSQL).WithArgs(first).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteSQL).WithArgs(missing).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ok, err := repo.DeleteByIDs(context.Background(), []uuid.UUID{first, missing})

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_DeleteByIDs_Empty(t *testing.T) {
	repo, mock := newReportRepo(t)

	ok, err := repo.DeleteByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_DeleteByIDs_ExecError(t *testing.T) {
	repo, mock := newReportRepo(t)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(deleteSQL).WithArgs(id).WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	ok, err := repo.DeleteByIDs(context.Background(), []uuid.UUID{id})

	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrReportDelete)
	assert.NoError(t, mock.ExpectationsWereMet())
}
