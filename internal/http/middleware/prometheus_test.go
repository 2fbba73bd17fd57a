package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"applicantreview/internal/apperr"
	"applicantreview/internal/http/handler"
	"applicantreview/internal/http/middleware"
	"applicantreview/internal/logging"
	"applicantreview/internal/model"
	serviceMocks "applicantreview/internal/service/mocks"
)

func newInstrumentedApp(t *testing.T) (*fiber.App, *prometheus.Registry, *serviceMocks.MockApplicantService) {
	t.Helper()
	reg := prometheus.NewRegistry()
	prom, err := middleware.NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	svc := new(serviceMocks.MockApplicantService)
	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler()})
	app.Use(middleware.RequestID())
	app.Use(prom.Handler())
	handler.RegisterRoutes(app, handler.Deps{Applicants: svc, Gatherer: reg, Logger: logging.Discard()})
	return app, reg, svc
}

func applicant(id int64, status model.Status) *model.Applicant {
	at := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return &model.Applicant{
		ID:        id,
		Profile:   model.Profile{FirstName: "Ana", LastName: "Cruz", Email: "ana@x.com", ProjectAppliedFor: "Genealogy"},
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// durationSamples returns the histogram sample count per "METHOD path" and the
// label names seen on the histogram.
func durationSamples(t *testing.T, reg prometheus.Gatherer) (map[string]uint64, map[string]bool) {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)

	samples := map[string]uint64{}
	labelNames := map[string]bool{}
	for _, mf := range mfs {
		if mf.GetName() != "http_request_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
				labelNames[lp.GetName()] = true
			}
			samples[labels["method"]+" "+labels["path"]] = m.GetHistogram().GetSampleCount()
		}
	}
	return samples, labelNames
}

func do(t *testing.T, app *fiber.App, method, target string) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	return resp.StatusCode
}

func TestPrometheusMiddleware_ApplicantRoutes(t *testing.T) {
	app, reg, svc := newInstrumentedApp(t)

	svc.On("Get", mock.Anything, int64(7)).Return(applicant(7, model.StatusPending), nil)
	svc.On("Get", mock.Anything, int64(8)).Return(nil, apperr.NotFound("Applicant not found"))
	svc.On("Approve", mock.Anything, int64(7)).Return(applicant(7, model.StatusApproved), nil)
	svc.On("Search", mock.Anything, "Ana").Return([]model.Applicant{*applicant(7, model.StatusPending)}, nil)

	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/applicants/7"))
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/applicants/7"))
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/api/applicants/8"))
	assert.Equal(t, http.StatusBadRequest, do(t, app, http.MethodGet, "/api/applicants/abc"))
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodPut, "/api/applicants/7/approve"))
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/applicants/search?name=Ana"))

	expected := `
# HELP http_requests_total Total number of HTTP requests processed.
# TYPE http_requests_total counter
http_requests_total{method="GET",path="/api/applicants/:id",status="200"} 2
http_requests_total{method="GET",path="/api/applicants/:id",status="400"} 1
http_requests_total{method="GET",path="/api/applicants/:id",status="404"} 1
http_requests_total{method="GET",path="/api/applicants/search",status="200"} 1
http_requests_total{method="PUT",path="/api/applicants/:id/approve",status="200"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_requests_total"))

	samples, labelNames := durationSamples(t, reg)
	assert.Equal(t, map[string]uint64{
		"GET /api/applicants/:id":         4,
		"GET /api/applicants/search":      1,
		"PUT /api/applicants/:id/approve": 1,
	}, samples)
	assert.Equal(t, map[string]bool{"method": true, "path": true}, labelNames)
	svc.AssertExpectations(t)
}

func TestPrometheusMiddleware_SkipsMetricsEndpoint(t *testing.T) {
	app, reg, _ := newInstrumentedApp(t)

	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/metrics"))
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/projects"))

	samples, _ := durationSamples(t, reg)
	assert.Equal(t, map[string]uint64{"GET /api/projects": 1}, samples)
	count, err := testutil.GatherAndCount(reg, "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := middleware.NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = middleware.NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}
