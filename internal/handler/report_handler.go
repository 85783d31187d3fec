package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"reportsvc/internal/domain"
	"reportsvc/internal/service"
)

const dateLayout = "2006-01-02"

// ReportHandler handles report endpoints.
type ReportHandler struct {
	reportService service.ReportService
	log           logrus.FieldLogger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, log logrus.FieldLogger) *ReportHandler {
	return &ReportHandler{reportService: reportService, log: log}
}

// Create handles POST /api/v1/reports
// @Summary      Create report
// @Description  Creates a report together with its filters in one transaction
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body body domain.ReportRequest true "Report with filters"
// @Success      201 {object} APIResponse{data=domain.Report}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var req domain.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), &req, c.GetHeader("Authorization"))
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	RespondCreated(c, report)
}

// List handles GET /api/v1/reports
// @Summary      List reports
// @Description  Lists reports newest first, each with its filters
// @Tags         reports
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        items_per_page query int false "Reports per page" default(5)
// @Success      200 {object} APIResponse{data=[]domain.Report,meta=PagMeta}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	p, err := parsePagination(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	list, err := h.reportService.ListReports(c.Request.Context(), p)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	RespondPaginated(c, list.Reports, PagMeta{
		TotalPages: list.Pagination.TotalPages,
		TotalRows:  list.Pagination.TotalRows,
	})
}

// GetByID handles GET /api/v1/reports/:id
// @Summary      Get report
// @Description  Returns one report with the names of its filters
// @Tags         reports
// @Produce      json
// @Param        id path string true "Report ID"
// @Success      200 {object} APIResponse{data=domain.Report}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/{id} [get]
func (h *ReportHandler) GetByID(c *gin.Context) {
	reportID, ok := parseReportID(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), reportID)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	RespondOK(c, report)
}

// Update handles PUT /api/v1/reports/:id
// @Summary      Update report
// @Description  Renames a report and its filters in one transaction
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        id path string true "Report ID"
// @Param        body body domain.UpdateReportRequest true "New report and filter names"
// @Success      200 {object} APIResponse{data=domain.Report}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      422 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/{id} [put]
func (h *ReportHandler) Update(c *gin.Context) {
	reportID, ok := parseReportID(c)
	if !ok {
		return
	}

	var req domain.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	report, err := h.reportService.UpdateReport(c.Request.Context(), reportID, &req, c.GetHeader("Authorization"))
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	RespondOK(c, report)
}

// Delete handles DELETE /api/v1/reports
// @Summary      Delete reports
// @Description  Deletes every listed report, or none if any id is unknown
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body body domain.DeleteReportsRequest true "Report IDs"
// @Success      200 {object} APIResponse
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      422 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	var req domain.DeleteReportsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.reportService.DeleteReports(c.Request.Context(), req.ReportIDs); err != nil {
		HandleError(c, h.log, err)
		return
	}

	RespondOK(c, gin.H{"message": "reports deleted"})
}

// OrdersByPartner handles GET /api/v1/reports/partners/:partner_id
// @Summary      Partner order report
// @Description  Renders the completed orders of a partner over at most 31 days
// @Tags         reports
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        partner_id path string true "Partner ID"
// @Param        start_date query string false "Start date (YYYY-MM-DD), default 31 days ago"
// @Param        end_date query string false "End date (YYYY-MM-DD), default today"
// @Param        format query string false "pdf, xlsx or csv" default(pdf)
// @Success      200 {file} file
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/partners/{partner_id} [get]
func (h *ReportHandler) OrdersByPartner(c *gin.Context) {
	filters, err := parsePartnerReportFilters(c, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			HandleError(c, h.log, err)
			return
		}
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	doc, err := h.reportService.GeneratePartnerReport(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	if doc.ArchiveKey != "" {
		c.Header("X-Archive-Key", doc.ArchiveKey)
	}
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// parseReportID reads the :id path parameter. Returns false if it is missing
// or malformed (error response already written).
func parseReportID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	if raw == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "report_id is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "report_id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (domain.Pagination, error) {
	var p domain.Pagination
	if s := c.Query("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 1 {
			return p, fmt.Errorf("invalid 'page': must be a positive integer")
		}
		p.Page = page
	}
	if s := c.Query("items_per_page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return p, fmt.Errorf("invalid 'items_per_page': must be a positive integer")
		}
		p.ItemsPerPage = n
	}
	return p, nil
}

func parsePartnerReportFilters(c *gin.Context, now time.Time) (*domain.PartnerReportFilters, error) {
	partnerID, err := uuid.Parse(c.Param("partner_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid 'partner_id': must be a valid UUID")
	}

	var start, end *time.Time
	if s := c.Query("start_date"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("invalid 'start_date': must be YYYY-MM-DD")
		}
		start = &t
	}
	if s := c.Query("end_date"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("invalid 'end_date': must be YYYY-MM-DD")
		}
		end = &t
	}

	format, err := domain.ParseReportFormat(c.Query("format"))
	if err != nil {
		return nil, err
	}

	from, to := domain.PartnerReportWindow(start, end, now)
	return &domain.PartnerReportFilters{
		PartnerID: partnerID,
		StartDate: from,
		EndDate:   to,
		Format:    format,
	}, nil
}
