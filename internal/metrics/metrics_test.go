package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewSink_RegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	if _, err := NewSink(reg); err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}
	if _, err := NewSink(reg); err != nil {
		t.Fatalf("NewSink() second call error = %v", err)
	}
}

func TestSink_Handler(t *testing.T) {
	sink, err := NewSink(nil)
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}

	sink.RecordPreview("ok", 0.01)
	sink.RecordPreview("error", 0.02)
	sink.RecordUpload(512)

	rec := httptest.NewRecorder()
	sink.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`maintgen_previews_total{outcome="ok"} 1`,
		`maintgen_previews_total{outcome="error"} 1`,
		"maintgen_upload_files_total 1",
		"maintgen_upload_bytes_total 512",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q:\n%s", want, body)
		}
	}
}
