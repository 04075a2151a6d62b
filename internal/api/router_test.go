package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palava-proof/internal/api/handlers"
	"palava-proof/internal/config"
	"palava-proof/internal/domain/models"
	"palava-proof/internal/domain/services"
	"palava-proof/internal/infrastructure/database"
	"palava-proof/internal/streaming"
	"palava-proof/pkg/logger"
)

type testServer struct {
	handler http.Handler
	events  <-chan *streaming.Event
	counts  map[string]int64
}

type memoryCounter map[string]int64

func (m memoryCounter) IncrFeedback(_ context.Context, kind string) (int64, error) {
	m[kind]++
	return m[kind], nil
}

func (m memoryCounter) FeedbackCounts(context.Context) (map[string]int64, error) {
	return m, nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func newTestServer(t *testing.T, probes map[string]handlers.Pinger) *testServer {
	t.Helper()
	log := logger.NewNop()

	store, err := database.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	bus := streaming.NewEventBus(nil, log)
	t.Cleanup(bus.Close)
	events, _ := bus.Subscribe(&streaming.Subscription{IncludeDuplicates: true})
	publisher := streaming.NewEventBusPublisher(bus)

	counter := memoryCounter{}
	reports := services.NewReportService(store, nil, publisher, log)

	if probes == nil {
		probes = map[string]handlers.Pinger{"store": store}
	}

	h := handlers.NewHandlers(handlers.Dependencies{
		Checker:  services.NewCheckService(reports, publisher, log),
		Reports:  reports,
		Feedback: services.NewFeedbackService(counter, log),
		Sharer:   services.NewShareService(nil, nil, log),
		Version:  "test",
		Probes:   probes,
		Logger:   log,
	})

	cfg := config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"*"}}}
	return &testServer{
		handler: NewRouter(cfg, h, nil, log).Setup(),
		events:  events,
		counts:  counter,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCheckEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/check", `{"message":"URGENT!!! You won a prize. Click here: bit.ly/xyz"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	res := decode[services.CheckResult](t, rec)
	assert.Equal(t, models.StatusDanger, res.Verdict.Status)
	assert.Equal(t, 70, res.Verdict.Confidence)
	assert.True(t, res.Verdict.IsScam)
	require.NotNil(t, res.Display)
	assert.Equal(t, "PALAVA DETECTED! Do not respond!", res.Display.Title)
	assert.Equal(t, "70% confidence score", res.Display.ConfidenceLabel)
	assert.NotNil(t, res.CommunityReports)

	event := <-srv.events
	assert.Equal(t, streaming.EventTypePalavaDetected, event.Type)
	assert.Equal(t, 70, event.Confidence)
}

func TestCheckEndpointRejectsEmptyMessage(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/check", `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please paste a message to check", decode[map[string]string](t, rec)["error"])

	rec = srv.do(t, http.MethodPost, "/api/v1/check", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckEndpointSafeMessage(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/check", `{"message":"See you at church on Sunday"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[services.CheckResult](t, rec)
	assert.Equal(t, models.StatusSafe, res.Verdict.Status)
	assert.Zero(t, res.Verdict.Confidence)
	assert.Empty(t, res.Display.Findings)
	assert.Empty(t, srv.events)
}

func TestReportThenCommunityLookup(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"content":"Send 500 LRD to 0770123456 to claim your prize","phone_number":"0770123456"}`
	rec := srv.do(t, http.MethodPost, "/api/v1/report", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	receipt := decode[models.ReportReceipt](t, rec)
	assert.True(t, receipt.Stored)
	assert.False(t, receipt.Duplicate)

	rec = srv.do(t, http.MethodPost, "/api/v1/report", body)
	require.Equal(t, http.StatusOK, rec.Code)
	receipt = decode[models.ReportReceipt](t, rec)
	assert.True(t, receipt.Duplicate)
	assert.Equal(t, "Thank you! This scam has been reported before. Your report helps confirm it.", receipt.Message)

	rec = srv.do(t, http.MethodPost, "/api/v1/check", `{"message":"Call 0770123456 now"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[services.CheckResult](t, rec)
	require.Len(t, res.CommunityReports, 1)
	assert.Equal(t, models.CommunityMatch{Kind: "phone", Value: "0770123456", Count: 1}, res.CommunityReports[0])
}

func TestReportEndpointRejectsEmptyContent(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.do(t, http.MethodPost, "/api/v1/report", `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentScamsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"content":"Your MTN account is locked, verify today"}`
	for i := 0; i < 4; i++ {
		srv.do(t, http.MethodPost, "/api/v1/report", body)
	}

	rec := srv.do(t, http.MethodGet, "/api/v1/recent-scams", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[handlers.RecentResponse](t, rec)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, 4, res.Scams[0].TimesReported)
}

func TestFeedbackEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/feedback", `{"accurate":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "🙏 Thank you for your feedback! This helps improve Palava Proof.", decode[handlers.FeedbackResponse](t, rec).Message)

	rec = srv.do(t, http.MethodPost, "/api/v1/feedback", `{"accurate":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "📝 Thank you for letting us know. We'll review this message.", decode[handlers.FeedbackResponse](t, rec).Message)

	rec = srv.do(t, http.MethodPost, "/api/v1/feedback", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, int64(1), srv.counts["accurate"])
	assert.Equal(t, int64(1), srv.counts["inaccurate"])

	rec = srv.do(t, http.MethodGet, "/api/v1/feedback/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]int64{"accurate": 1, "inaccurate": 1}, decode[map[string]int64](t, rec))
}

func TestShareEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/share", `{"message":"You won!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	outcome := decode[models.ShareOutcome](t, rec)
	assert.Equal(t, "Palava Proof Scam Alert", outcome.Title)
	assert.Equal(t, "⚠️ Palava Proof Scam Alert ⚠️\n\nSuspicious message: \"You won!\"\n\nCheck scams at Palava Proof - Liberia's Community Scam Shield", outcome.Text)

	rec = srv.do(t, http.MethodPost, "/api/v1/share", `{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatternsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/api/v1/patterns", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[handlers.PatternsResponse](t, rec)
	require.Len(t, res.Categories, 8)
	assert.Equal(t, models.CategoryUrgency, res.Categories[0].Category)
	assert.Equal(t, 60, res.Thresholds["danger"])
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[handlers.HealthResponse](t, rec).Status)

	rec = srv.do(t, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[handlers.HealthResponse](t, rec).Checks["store"])

	down := newTestServer(t, map[string]handlers.Pinger{"redis": failingPinger{}})
	rec = down.do(t, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", decode[handlers.HealthResponse](t, rec).Status)
}

func TestRootAndNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[handlers.BannerResponse](t, rec).Endpoints, "POST /api/v1/check")

	rec = srv.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
