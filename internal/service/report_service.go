package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"reportsvc/internal/config"
	"reportsvc/internal/domain"
	"reportsvc/internal/logger"
	"reportsvc/internal/port"
)

// PartnerReportFileName is the download name of a rendered partner report,
// without extension.
const PartnerReportFileName = "OrdersByPartner"

// ReportService manages reports with their filters and renders partner order reports.
type ReportService interface {
	CreateReport(ctx context.Context, req *domain.ReportRequest, authorization string) (*domain.Report, error)
	UpdateReport(ctx context.Context, reportID uuid.UUID, req *domain.UpdateReportRequest, authorization string) (*domain.Report, error)
	ListReports(ctx context.Context, p domain.Pagination) (*domain.ReportList, error)
	GetReport(ctx context.Context, reportID uuid.UUID) (*domain.Report, error)
	DeleteReports(ctx context.Context, reportIDs []uuid.UUID) error
	GeneratePartnerReport(ctx context.Context, filters *domain.PartnerReportFilters) (*domain.RenderedDocument, error)
}

type reportService struct {
	reportRepo port.ReportRepository
	orderRepo  port.OrderRepository
	identity   IdentityService
	renderers  map[domain.ReportFormat]port.DocumentRenderer
	storage    port.ObjectStorage
	reportCfg  config.ReportConfig
	s3Cfg      config.S3Config
	log        logrus.FieldLogger
}

// NewReportService creates a new ReportService. storage may be nil, in which
// case rendered partner reports are not archived.
func NewReportService(
	reportRepo port.ReportRepository,
	orderRepo port.OrderRepository,
	identity IdentityService,
	renderers []port.DocumentRenderer,
	storage port.ObjectStorage,
	reportCfg config.ReportConfig,
	s3Cfg config.S3Config,
	log logrus.FieldLogger,
) ReportService {
	byFormat := make(map[domain.ReportFormat]port.DocumentRenderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &reportService{
		reportRepo: reportRepo,
		orderRepo:  orderRepo,
		identity:   identity,
		renderers:  byFormat,
		storage:    storage,
		reportCfg:  reportCfg,
		s3Cfg:      s3Cfg,
		log:        log,
	}
}

func (s *reportService) CreateReport(ctx context.Context, req *domain.ReportRequest, authorization string) (*domain.Report, error) {
	caller, err := s.identity.Decode(authorization)
	if err != nil {
		return nil, err
	}
	req.CreatedBy = caller.UserID

	report, err := s.reportRepo.Create(ctx, req)
	if err != nil {
		if !errors.Is(err, domain.ErrReportCreate) {
			err = fmt.Errorf("%w: %w", domain.ErrReportCreate, err)
		}
		return nil, fmt.Errorf("reportService.CreateReport: %w", err)
	}
	if report == nil {
		return nil, domain.ErrReportCreate
	}

	s.log.WithFields(logrus.Fields{
		"report_id":  report.ID,
		"created_by": report.CreatedBy,
		"filters":    len(report.Filters),
	}).Info("report created")
	return report, nil
}

func (s *reportService) UpdateReport(ctx context.Context, reportID uuid.UUID, req *domain.UpdateReportRequest, authorization string) (*domain.Report, error) {
	caller, err := s.identity.Decode(authorization)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		ID:          reportID,
		Name:        req.Name,
		Description: req.Description,
		UpdatedBy:   &caller.UserID,
		Filters:     make([]domain.Filter, len(req.Filters)),
	}
	for i, f := range req.Filters {
		report.Filters[i] = domain.Filter{ID: f.ID, Name: f.Name, ReportID: reportID}
	}

	updated, err := s.reportRepo.Update(ctx, report)
	if err != nil {
		if !errors.Is(err, domain.ErrReportUpdate) {
			err = fmt.Errorf("%w: %w", domain.ErrReportUpdate, err)
		}
		return nil, fmt.Errorf("reportService.UpdateReport: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrReportUpdate
	}
	return updated, nil
}

func (s *reportService) ListReports(ctx context.Context, p domain.Pagination) (*domain.ReportList, error) {
	p = p.Normalize(s.reportCfg.DefaultItemsPerPage, s.reportCfg.MaxItemsPerPage)

	list, err := s.reportRepo.List(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("reportService.ListReports: %w", err)
	}
	if list == nil {
		return nil, domain.ErrReportCreate
	}
	return list, nil
}

func (s *reportService) GetReport(ctx context.Context, reportID uuid.UUID) (*domain.Report, error) {
	return s.reportRepo.GetByID(ctx, reportID)
}

func (s *reportService) DeleteReports(ctx context.Context, reportIDs []uuid.UUID) error {
	ok, err := s.reportRepo.DeleteByIDs(ctx, reportIDs)
	if err != nil {
		if !errors.Is(err, domain.ErrReportDelete) {
			err = fmt.Errorf("%w: %w", domain.ErrReportDelete, err)
		}
		return fmt.Errorf("reportService.DeleteReports: %w", err)
	}
	if !ok {
		return domain.ErrReportDelete
	}
	s.log.WithField("report_ids", reportIDs).Info("reports deleted")
	return nil
}

func (s *reportService) GeneratePartnerReport(ctx context.Context, filters *domain.PartnerReportFilters) (*domain.RenderedDocument, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	if filters.Format == "" {
		filters.Format = domain.FormatPDF
	}
	renderer, ok := s.renderers[filters.Format]
	if !ok {
		return nil, domain.ErrUnsupportedFormat
	}

	orders, err := s.orderRepo.ListCompletedByPartner(ctx, filters.PartnerID, filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, fmt.Errorf("reportService.GeneratePartnerReport: %w", err)
	}
	if len(orders) == 0 {
		return nil, domain.ErrNoOrders
	}

	content, err := renderer.Render(orders, filters)
	if err != nil {
		logger.LogError(s.log, "reportService", "GeneratePartnerReport", "rendering partner report", filters, err)
		return nil, fmt.Errorf("reportService.GeneratePartnerReport: %w", err)
	}

	doc := &domain.RenderedDocument{
		Content:     content,
		ContentType: domain.ReportContentTypes[filters.Format],
		FileName:    PartnerReportFileName + "." + string(filters.Format),
	}
	if s.storage != nil {
		doc.ArchiveKey = s.archive(ctx, filters, doc)
	}
	return doc, nil
}

// archive uploads a rendered document and returns its key, or "" when the
// upload failed. A failed upload never fails the request.
func (s *reportService) archive(ctx context.Context, filters *domain.PartnerReportFilters, doc *domain.RenderedDocument) string {
	key := ArchiveKey(s.s3Cfg.Prefix, filters)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(doc.Content),
		ContentType: doc.ContentType,
		Size:        int64(len(doc.Content)),
	})
	if err != nil {
		logger.LogError(s.log, "reportService", "archive", "uploading partner report", key, err)
		return ""
	}
	return key
}

// ArchiveKey builds the object key <prefix>/<partner_id>/<start>_<end>.<format>.
func ArchiveKey(prefix string, filters *domain.PartnerReportFilters) string {
	name := fmt.Sprintf("%s_%s.%s",
		filters.StartDate.Format("2006-01-02"), filters.EndDate.Format("2006-01-02"), filters.Format)
	return path.Join(prefix, filters.PartnerID.String(), name)
}
