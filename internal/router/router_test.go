package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reportsvc/internal/domain"
	"reportsvc/internal/handler"
	"reportsvc/internal/logger"
	"reportsvc/internal/router"
	"reportsvc/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func newEngine() (*gin.Engine, *mocks.MockIdentityService, *mocks.MockReportService) {
	identity := new(mocks.MockIdentityService)
	svc := new(mocks.MockReportService)
	log := logger.Discard()
	r := router.Setup(
		identity,
		handler.NewReportHandler(svc, log),
		handler.NewHealthHandler(okPinger{}),
		[]string{"http://localhost:3000"},
		log,
	)
	return r, identity, svc
}

func TestSetup_HealthIsPublic(t *testing.T) {
	r, _, _ := newEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSetup_ReportsRequireToken(t *testing.T) {
	r, identity, _ := newEngine()
	identity.On("Decode", "").Return(nil, domain.ErrEmptyToken)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports", http.NoBody))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetup_RoutesPartnerReportBeforeReportID(t *testing.T) {
	r, identity, svc := newEngine()
	partnerID := uuid.New()

	identity.On("Decode", "Bearer t").Return(&domain.Identity{UserID: uuid.New()}, nil)
	svc.On("GeneratePartnerReport", mock.Anything, mock.MatchedBy(func(f *domain.PartnerReportFilters) bool {
		return f.PartnerID == partnerID
	})).Return(&domain.RenderedDocument{Content: []byte("%PDF"), ContentType: "application/pdf", FileName: "OrdersByPartner.pdf"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/partners/"+partnerID.String(), http.NoBody)
	req.Header.Set("Authorization", "Bearer t")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
