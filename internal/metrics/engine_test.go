package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterEngineMetrics_Idempotent(t *testing.T) {
	RegisterEngineMetrics()
	RegisterEngineMetrics()

	if !engineMetricsRegistered {
		t.Fatal("expected metrics to be registered")
	}
}

func TestEngineMetrics_Labels(t *testing.T) {
	before := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("index", "ok"))
	SearchRequestsTotal.WithLabelValues("index", "ok").Inc()

	if got := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("index", "ok")); got != before+1 {
		t.Errorf("search_requests_total = %f, want %f", got, before+1)
	}

	IndexDocuments.Set(42)
	if got := testutil.ToFloat64(IndexDocuments); got != 42 {
		t.Errorf("index_documents = %f", got)
	}
}
