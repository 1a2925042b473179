package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandlerExposesCounters(t *testing.T) {
	r := NewRegistry()
	r.PagesFetched.WithLabelValues("directory").Inc()
	r.RowsInserted.Add(3)

	if got := testutil.ToFloat64(r.RowsInserted); got != 3 {
		t.Fatalf("RowsInserted: got %v, want 3", got)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`catalog_pages_fetched_total{stage="directory"} 1`,
		"catalog_rows_inserted_total 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
