package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	// None of these may panic.
	noOpMetrics.RecordOperation(context.Background(), "envelope", "envelope_encrypt", "success")
	noOpMetrics.RecordDuration(context.Background(), "rotation", "rotate_all", time.Second, "error")
	noOpMetrics.RecordRotatedRecords(context.Background(), OutcomeFailed, "authentication_failure", 3)
}

func TestBusinessMetrics_Operations(t *testing.T) {
	provider, err := NewProvider("biz_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "biz_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "envelope", "envelope_encrypt", "success")
	bm.RecordOperation(ctx, "envelope", "envelope_encrypt", "success")
	bm.RecordOperation(ctx, "envelope", "envelope_decrypt", "error")
	bm.RecordDuration(ctx, "rotation", "rotate_all", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "rotation", "rotate_all", 70*time.Millisecond, "success")

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `biz_test_operations_total`,
		`domain="envelope".*operation="envelope_encrypt".*status="success"`, `2`)
	assertBizMetricLine(t, output, `biz_test_operations_total`,
		`domain="envelope".*operation="envelope_decrypt".*status="error"`, `1`)
	assertBizMetricLine(t, output, `biz_test_operation_duration_seconds_count`,
		`domain="rotation".*operation="rotate_all".*status="success"`, `2`)
}

func TestBusinessMetrics_RecordRotatedRecords(t *testing.T) {
	provider, err := NewProvider("rot_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "rot_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordRotatedRecords(ctx, OutcomeUpdated, "", 4)
	bm.RecordRotatedRecords(ctx, OutcomeUpdated, "", 1)
	bm.RecordRotatedRecords(ctx, OutcomeFailed, "authentication_failure", 2)
	bm.RecordRotatedRecords(ctx, OutcomeUnchanged, "", 0)

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `rot_test_rotation_records_total`, `outcome="updated"`, `5`)
	assertBizMetricLine(t, output, `rot_test_rotation_records_total`,
		`kind="authentication_failure".*outcome="failed"`, `2`)
	assert.NotContains(t, output, `outcome="unchanged"`)
}
