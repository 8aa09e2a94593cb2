package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Behyna/hisabkitab/internal/api"
	v1 "github.com/Behyna/hisabkitab/internal/api/v1"
	"github.com/Behyna/hisabkitab/internal/api/validator"
	"github.com/Behyna/hisabkitab/internal/auth"
	"github.com/Behyna/hisabkitab/internal/bill"
	"github.com/Behyna/hisabkitab/internal/config"
	"github.com/Behyna/hisabkitab/internal/metrics"
	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/Behyna/hisabkitab/internal/publishers"
	"github.com/Behyna/hisabkitab/internal/repository"
	"github.com/Behyna/hisabkitab/internal/service"
	"github.com/Behyna/hisabkitab/pkg/gormdb"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	app     *fiber.App
	entries repository.EntryRepository
	signer  *auth.Signer
}

func newTestServer(t *testing.T, withAuth bool) *testServer {
	t.Helper()
	logger := zap.NewNop()

	db, err := gormdb.NewConnection(context.Background(), gormdb.Config{
		Driver:   gormdb.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "api.db"),
		LogLevel: "silent",
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormdb.Close(db) })
	require.NoError(t, repository.EnsureSchema(db))

	cfg := &config.Config{
		API:     config.API{Engine: "HisabKitab"},
		Metrics: config.Metrics{Enabled: true},
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	customers := repository.NewCustomerRepository(db)
	entries := repository.NewEntryRepository(db)
	entryService := service.NewEntryService(repository.NewTransactionManager(db), customers, entries,
		bill.NewRenderer(bill.Config{}), publishers.NopBillPublisher{}, logger, m)

	handler := v1.NewHandler(logger, entryService, validator.NewXValidator(playground.New(), m), m, cfg)

	opts := api.RouteOptions{Gatherer: registry, Logger: logger}
	var signer *auth.Signer
	if withAuth {
		signer, err = auth.NewSigner("test-secret", time.Hour)
		require.NoError(t, err)
		opts.Signer = signer
	}

	dbCollector := metrics.NewDatabaseMetricsCollector(m, logger, db)
	require.NoError(t, dbCollector.Instrument(db))

	app := api.NewApp(cfg, logger, m, dbCollector)
	api.SetupRoutes(app, handler, opts)

	return &testServer{app: app, entries: entries, signer: signer}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func entryBody(name, item string, quantity, price float64) map[string]any {
	return map[string]any{"customer_name": name, "item": item, "quantity": quantity, "price_per_unit": price}
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestHome(t *testing.T) {
	s := newTestServer(t, false)

	status, raw := s.do(t, http.MethodGet, "/", nil, nil)

	assert.Equal(t, http.StatusOK, status)
	home := decode[v1.HomeResponse](t, raw)
	assert.Equal(t, "Online", home.Status)
	assert.Equal(t, "HisabKitab", home.Engine)
}

func TestProcessEntry(t *testing.T) {
	s := newTestServer(t, false)

	status, raw := s.do(t, http.MethodPost, "/process/", entryBody("Ravi", "Rice", 10, 600), nil)

	require.Equal(t, http.StatusOK, status, string(raw))
	resp := decode[v1.EntryResponse](t, raw)
	assert.True(t, resp.Success)
	assert.Equal(t, 6000.0, resp.Total)
	assert.Equal(t, "High", resp.Tier)
	assert.Equal(t, "High", resp.Risk)
	assert.Equal(t, "Strict", resp.Tone)
	assert.Contains(t, resp.Bill, "Ravi")
	assert.Contains(t, resp.Bill, "Rice")
	assert.Contains(t, resp.Bill, "6000")
	assert.True(t, strings.HasPrefix(resp.WhatsAppLink, bill.DefaultShareBaseURL))
	assert.NotContains(t, resp.WhatsAppLink, " ")
	assert.NotContains(t, resp.WhatsAppLink, "\n")
	assert.Equal(t, "Customer: High, Recommended Tone: Strict", resp.Report)
	assert.NotZero(t, resp.TransactionID)
	assert.NotEmpty(t, resp.TrackID)
}

func TestProcessEntry_AliasAndZeroValues(t *testing.T) {
	s := newTestServer(t, false)

	status, raw := s.do(t, http.MethodPost, "/add_hisaab/", entryBody("Asha", "Sample", 0, 0), nil)

	require.Equal(t, http.StatusOK, status, string(raw))
	resp := decode[v1.EntryResponse](t, raw)
	assert.Equal(t, 0.0, resp.Total)
	assert.Equal(t, "Low", resp.Tier)
	assert.Equal(t, "Gentle", resp.Tone)
}

func TestProcessEntry_Rejected(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"negative quantity", entryBody("Ravi", "Rice", -1, 600), http.StatusUnprocessableEntity, "VALIDATION_FAILED", "quantity must be greater than or equal to 0"},
		{"negative price", entryBody("Ravi", "Rice", 1, -600), http.StatusUnprocessableEntity, "VALIDATION_FAILED", "price_per_unit must be greater than or equal to 0"},
		{"missing quantity", map[string]any{"customer_name": "Ravi", "item": "Rice", "price_per_unit": 1}, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "quantity is required"},
		{"blank customer", entryBody("   ", "Rice", 1, 1), http.StatusUnprocessableEntity, "VALIDATION_FAILED", "customer_name must not be blank"},
		{"overflowing total", entryBody("Ravi", "Rice", 1e200, 1e200), http.StatusUnprocessableEntity, "VALIDATION_FAILED", "total must be a finite amount"},
		{"malformed json", `{"customer_name": "Ravi",`, http.StatusBadRequest, "INVALID_REQUEST_BODY", "failed to parse request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, false)

			status, raw := s.do(t, http.MethodPost, "/process/", tt.body, nil)

			assert.Equal(t, tt.wantStatus, status, string(raw))
			resp := decode[map[string]any](t, raw)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, tt.wantCode, resp["code"])
			assert.Contains(t, resp["message"], tt.wantMessage)

			count, err := s.entries.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestListEntries_NewestFirst(t *testing.T) {
	s := newTestServer(t, false)

	status, raw := s.do(t, http.MethodGet, "/entries/", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(raw))

	for _, item := range []string{"Rice", "Wheat", "Sugar"} {
		status, raw := s.do(t, http.MethodPost, "/process/", entryBody("Ravi", item, 1, 10), nil)
		require.Equal(t, http.StatusOK, status, string(raw))
	}

	status, raw = s.do(t, http.MethodGet, "/entries/", nil, nil)
	require.Equal(t, http.StatusOK, status)

	entries := decode[[]model.Entry](t, raw)
	require.Len(t, entries, 3)
	assert.Equal(t, "Sugar", entries[0].Item)
	assert.Equal(t, "Rice", entries[2].Item)
	assert.Equal(t, "Ravi", entries[0].CustomerName)
	assert.Greater(t, entries[0].ID, entries[1].ID)
}

func TestUpdateEntry(t *testing.T) {
	s := newTestServer(t, false)

	_, raw := s.do(t, http.MethodPost, "/process/", entryBody("Ravi", "Rice", 1, 100), nil)
	created := decode[v1.EntryResponse](t, raw)

	path := fmt.Sprintf("/entries/%d", created.TransactionID)
	status, raw := s.do(t, http.MethodPut, path, entryBody("Asha", "Wheat", 5, 500), nil)

	require.Equal(t, http.StatusOK, status, string(raw))
	updated := decode[v1.EntryResponse](t, raw)
	assert.True(t, updated.Success)
	assert.Equal(t, created.TransactionID, updated.TransactionID)
	assert.Equal(t, 2500.0, updated.Total)
	assert.Equal(t, "Medium", updated.Tier)
	assert.NotEqual(t, created.CustomerID, updated.CustomerID)

	stored, err := s.entries.GetByID(context.Background(), created.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, "Wheat", stored.Item)
	assert.Equal(t, 2500.0, stored.Total)
}

func TestUpdateAndDelete_SoftNotFound(t *testing.T) {
	s := newTestServer(t, false)

	_, raw := s.do(t, http.MethodPost, "/process/", entryBody("Ravi", "Rice", 1, 100), nil)
	created := decode[v1.EntryResponse](t, raw)

	before, err := s.entries.List(context.Background())
	require.NoError(t, err)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		var body any
		if method == http.MethodPut {
			body = entryBody("Ravi", "Rice", 2, 2)
		}

		status, raw := s.do(t, method, "/entries/999999", body, nil)

		assert.Equal(t, http.StatusOK, status, method)
		resp := decode[map[string]any](t, raw)
		assert.Equal(t, false, resp["success"], method)
		assert.Equal(t, "not found", resp["message"], method)
	}

	after, err := s.entries.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	status, raw := s.do(t, http.MethodDelete, fmt.Sprintf("/entries/%d", created.TransactionID), nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decode[map[string]any](t, raw)["success"])

	status, raw = s.do(t, http.MethodDelete, fmt.Sprintf("/entries/%d", created.TransactionID), nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, decode[map[string]any](t, raw)["success"])
}

func TestUpdateEntry_OverflowingTotalKeepsRow(t *testing.T) {
	s := newTestServer(t, false)

	_, raw := s.do(t, http.MethodPost, "/process/", entryBody("Ravi", "Rice", 1, 100), nil)
	created := decode[v1.EntryResponse](t, raw)

	status, raw := s.do(t, http.MethodPut, fmt.Sprintf("/entries/%d", created.TransactionID),
		entryBody("Ravi", "Rice", 1e300, 1e10), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status, string(raw))

	status, raw = s.do(t, http.MethodGet, "/entries/", nil, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	entries := decode[[]model.Entry](t, raw)
	require.Len(t, entries, 1)
	assert.Equal(t, 100.0, entries[0].Total)
}

func TestPanicIsRecovered(t *testing.T) {
	s := newTestServer(t, false)
	s.app.Get("/explode", func(c *fiber.Ctx) error {
		panic("unexpected state")
	})

	status, raw := s.do(t, http.MethodGet, "/explode", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, false, decode[map[string]any](t, raw)["success"])

	status, _ = s.do(t, http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestEntryID_Invalid(t *testing.T) {
	s := newTestServer(t, false)

	status, raw := s.do(t, http.MethodDelete, "/entries/abc", nil, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(raw), "id must be a positive integer")
}

func TestListEntries_RequiresToken(t *testing.T) {
	s := newTestServer(t, true)

	status, raw := s.do(t, http.MethodGet, "/entries/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid token or login required", decode[map[string]any](t, raw)["message"])

	status, _ = s.do(t, http.MethodGet, "/entries/", nil, map[string]string{"Authorization": "Bearer forged.token"})
	assert.Equal(t, http.StatusUnauthorized, status)

	token, err := s.signer.Issue("ravi")
	require.NoError(t, err)

	status, raw = s.do(t, http.MethodGet, "/entries/", nil, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, status, string(raw))
	assert.JSONEq(t, "[]", string(raw))

	// writes stay open
	status, _ = s.do(t, http.MethodPost, "/process/", entryBody("Ravi", "Rice", 1, 1), nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestHealthPingAndMetrics(t *testing.T) {
	s := newTestServer(t, false)

	status, raw := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", decode[map[string]any](t, raw)["status"])

	status, raw = s.do(t, http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", string(raw))

	_, _ = s.do(t, http.MethodPost, "/process/", entryBody("Ravi", "Rice", 10, 600), nil)

	status, raw = s.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "hisabkitab_http_requests_total")
	assert.Contains(t, string(raw), `hisabkitab_entries_processed_total{operation="process",tier="High"} 1`)
	assert.Contains(t, string(raw), `hisabkitab_db_queries_total{operation="insert",status="success",table="transactions"} 1`)
}

func TestTrackID_EchoesCallerValue(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Track-Id", "abc-123")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Track-Id"))
}
