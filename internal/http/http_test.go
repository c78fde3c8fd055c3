package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authMocks "github.com/allisson/fieldcrypt/internal/auth/service/mocks"
	"github.com/allisson/fieldcrypt/internal/config"
	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
	envelopeMocks "github.com/allisson/fieldcrypt/internal/envelope/usecase/mocks"
	"github.com/allisson/fieldcrypt/internal/metrics"
	recordHTTP "github.com/allisson/fieldcrypt/internal/record/http"
	recordMocks "github.com/allisson/fieldcrypt/internal/record/usecase/mocks"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type routerFixture struct {
	server    *Server
	envelopes *envelopeMocks.MockEnvelopeUseCase
	records   *recordMocks.MockRecordUseCase
	tokens    *authMocks.MockAdminTokenService
}

// newRouterFixture builds a server with the full router and mocked use cases.
func newRouterFixture(t *testing.T, cfg *config.Config) *routerFixture {
	t.Helper()
	logger := discardLogger()

	f := &routerFixture{
		server:    NewServer(nil, "localhost", 0, logger),
		envelopes: &envelopeMocks.MockEnvelopeUseCase{},
		records:   &recordMocks.MockRecordUseCase{},
		tokens:    &authMocks.MockAdminTokenService{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	handler := recordHTTP.NewRecordHandler(f.envelopes, f.records, logger)
	f.server.SetupRouter(ctx, cfg, handler, f.tokens, nil)
	return f
}

func (f *routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.server.GetHandler().ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	f := newRouterFixture(t, &config.Config{})

	w := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestReadinessHandler(t *testing.T) {
	t.Run("NotReady_NilDB", func(t *testing.T) {
		server := NewServer(nil, "localhost", 0, discardLogger())
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not_ready", response["status"])
		components := response["components"].(map[string]any)
		assert.Equal(t, "error", components["database"])
	})

	t.Run("Ready_AllComponentsHealthy", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		sqlMock.ExpectPing()

		server := NewServer(db, "localhost", 0, discardLogger())
		server.AddReadinessCheck("key_source", func(ctx context.Context) error { return nil })

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"status":"ready","components":{"database":"ok","key_source":"ok"}}`,
			w.Body.String(),
		)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("NotReady_KeySourceDown", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		sqlMock.ExpectPing()

		server := NewServer(db, "localhost", 0, discardLogger())
		server.AddReadinessCheck("key_source", func(ctx context.Context) error {
			return errors.New("vault sealed")
		})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t,
			`{"status":"not_ready","components":{"database":"ok","key_source":"error"}}`,
			w.Body.String(),
		)
	})
}

func TestRouter_RecordRoutes(t *testing.T) {
	f := newRouterFixture(t, &config.Config{})

	report := &envelopeDomain.RotationReport{
		ID:             uuid.Must(uuid.NewV7()),
		CurrentVersion: "v2",
		Attempted:      1,
	}
	f.records.On("RotateAll", mock.Anything).Return(report, nil).Once()

	w := f.do(httptest.NewRequest(http.MethodPost, "/v1/rotations", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"current_version":"v2"`)
	f.records.AssertExpectations(t)
}

func TestRouter_NotFoundEndpoint(t *testing.T) {
	f := newRouterFixture(t, &config.Config{})

	assert.Equal(t, http.StatusNotFound, f.do(httptest.NewRequest(http.MethodGet, "/nonexistent", nil)).Code)
	assert.Equal(t, http.StatusNotFound, f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil)).Code)
}

func TestRouter_AdminToken(t *testing.T) {
	cfg := &config.Config{AdminTokenHash: "$argon2id$hash"}

	t.Run("Error_MissingHeader", func(t *testing.T) {
		f := newRouterFixture(t, cfg)

		w := f.do(httptest.NewRequest(http.MethodPost, "/v1/rotations", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		f.records.AssertNotCalled(t, "RotateAll", mock.Anything)
	})

	t.Run("Error_WrongScheme", func(t *testing.T) {
		f := newRouterFixture(t, cfg)
		req := httptest.NewRequest(http.MethodPost, "/v1/rotations", nil)
		req.Header.Set("Authorization", "Basic abc")

		w := f.do(req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_TokenMismatch", func(t *testing.T) {
		f := newRouterFixture(t, cfg)
		f.tokens.On("Verify", "wrong", cfg.AdminTokenHash).Return(false).Once()
		req := httptest.NewRequest(http.MethodPost, "/v1/rotations", nil)
		req.Header.Set("Authorization", "Bearer wrong")

		w := f.do(req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		f.tokens.AssertExpectations(t)
	})

	t.Run("Success_CaseInsensitiveBearer", func(t *testing.T) {
		f := newRouterFixture(t, cfg)
		f.tokens.On("Verify", "good", cfg.AdminTokenHash).Return(true).Once()
		f.records.On("RotateAll", mock.Anything).
			Return(&envelopeDomain.RotationReport{CurrentVersion: "v1"}, nil).
			Once()
		req := httptest.NewRequest(http.MethodPost, "/v1/rotations", nil)
		req.Header.Set("Authorization", "bearer good")

		w := f.do(req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_HealthIsPublic", func(t *testing.T) {
		f := newRouterFixture(t, cfg)

		w := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := &config.Config{RateLimitEnabled: true, RateLimitRequestsPerSec: 0.001, RateLimitBurst: 2}
	f := newRouterFixture(t, cfg)
	f.records.On("RotateAll", mock.Anything).
		Return(&envelopeDomain.RotationReport{CurrentVersion: "v1"}, nil)

	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/v1/rotations", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		assert.Equal(t, http.StatusOK, f.do(req).Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/rotations", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := f.do(req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// A different client has its own bucket.
	req = httptest.NewRequest(http.MethodPost, "/v1/rotations", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, f.do(req).Code)
}

func TestRateLimiterStore_RemoveIdle(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	store.getLimiter("10.0.0.1")
	store.getLimiter("10.0.0.2")

	store.removeIdle(time.Now().Add(time.Minute))

	count := 0
	store.limiters.Range(func(key, value any) bool {
		count++
		return true
	})
	assert.Zero(t, count)
}

func TestCustomLoggerMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := NewServer(nil, "localhost", 0, discardLogger())

	assert.Error(t, server.Start(context.Background()))
}

func TestServer_ShutdownGracefully(t *testing.T) {
	f := newRouterFixture(t, &config.Config{})

	errChan := make(chan error, 1)
	go func() {
		errChan <- f.server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, f.server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 0, discardLogger(), provider)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
