package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
)

func requestDurationCount(t *testing.T, m *Metrics, operation string) uint64 {
	t.Helper()
	obs, err := m.requestDuration.GetMetricWithLabelValues(operation)
	if err != nil {
		t.Fatalf("histogram lookup: %v", err)
	}
	out := &dto.Metric{}
	if err := obs.(prometheus.Metric).Write(out); err != nil {
		t.Fatalf("histogram write: %v", err)
	}
	return out.GetHistogram().GetSampleCount()
}

func TestZapLoggerMiddlewareRecordsDuration(t *testing.T) {
	m := NewMetrics()
	handler := ZapLoggerMiddleware(zap.NewNop(), m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	if got := requestDurationCount(t, m, "GET /ping"); got != 2 {
		t.Errorf("expected 2 duration samples for GET /ping, got %d", got)
	}
}

func TestIncrStoreError(t *testing.T) {
	m := NewMetrics()
	m.IncrStoreError("customers")
	m.IncrStoreError("customers")
	m.IncrStoreError("sales")

	if got := getCounterValue(m.storeErrors, "customers"); got != 2 {
		t.Errorf("expected 2 customer store errors, got %v", got)
	}
	if got := getCounterValue(m.storeErrors, "sales"); got != 1 {
		t.Errorf("expected 1 sales store error, got %v", got)
	}
}
