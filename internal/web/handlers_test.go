package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/opsdesk/maintgen/internal/config"
	"github.com/opsdesk/maintgen/internal/core"
	"github.com/opsdesk/maintgen/internal/metrics"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			RequestTimeout: 10 * time.Second,
		},
		Upload: config.UploadConfig{
			MaxRequestSize: 1 << 20,
			MaxFiles:       10,
		},
		Security: config.SecurityConfig{EnableCSP: true},
	}
	sink, err := metrics.NewSink(nil)
	if err != nil {
		t.Fatalf("metrics sink: %v", err)
	}
	return NewServer(core.NewService(), cfg, sink)
}

type multipartBody struct {
	buf *bytes.Buffer
	w   *multipart.Writer
}

func newMultipartBody() *multipartBody {
	buf := &bytes.Buffer{}
	return &multipartBody{buf: buf, w: multipart.NewWriter(buf)}
}

func (m *multipartBody) field(name, value string) {
	m.w.WriteField(name, value)
}

func (m *multipartBody) file(name, filename string, data []byte) {
	fw, _ := m.w.CreateFormFile(name, filename)
	fw.Write(data)
}

func (m *multipartBody) request(target string) *http.Request {
	m.w.Close()
	req := httptest.NewRequest(http.MethodPost, target, m.buf)
	req.Header.Set("Content-Type", m.w.FormDataContentType())
	return req
}

func doPreview(t *testing.T, s *Server, body *multipartBody) previewResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, body.request("/api/preview"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp previewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestPreviewComposesNotification(t *testing.T) {
	s := newTestServer(t)

	body := newMultipartBody()
	body.field("jira_ref", "NET-42")
	body.field("pop", "AMS-01")
	body.field("equipment", "edge-rtr-1")
	body.field("start_date", "01/03/2024")
	body.field("start_time", "22:00")
	body.field("end_date", "02/03/2024")
	body.field("end_time", "02:00")
	body.field("utc_single", "+1")
	body.file("files", "inventory.tsv", []byte("#CID\tLabel\nOC-1\tSiteA\n"))

	resp := doPreview(t, s, body)
	if !resp.OK {
		t.Fatalf("ok = false, error = %q", resp.Error)
	}
	if resp.GenerationID == "" {
		t.Error("generation_id is empty")
	}
	wantSubject := "Planned Network Maintenance – [NET-42] [AMS-01 / edge-rtr-1] – [01/03/2024 - 02/03/2024, 21:00 - 01:00, UTC+0]"
	if resp.Subject != wantSubject {
		t.Errorf("subject = %q, want %q", resp.Subject, wantSubject)
	}
	if !strings.Contains(resp.Body, "OC-1 (SiteA)") {
		t.Errorf("body missing classified circuit:\n%s", resp.Body)
	}
	if resp.CalculatedDowntime != "4h" {
		t.Errorf("calculated_downtime = %q, want %q", resp.CalculatedDowntime, "4h")
	}
}

func TestPreviewDefaultsUTCOffset(t *testing.T) {
	s := newTestServer(t)

	// No utc_single field at all: offset defaults to +0 so the times
	// pass through unshifted.
	body := newMultipartBody()
	body.field("start_date", "01/03/2024")
	body.field("start_time", "10:00")
	body.field("end_date", "01/03/2024")
	body.field("end_time", "11:00")

	resp := doPreview(t, s, body)
	if !resp.OK {
		t.Fatalf("ok = false, error = %q", resp.Error)
	}
	if !strings.Contains(resp.Body, "Start: 01/03/2024 10:00") {
		t.Errorf("body does not carry unshifted start:\n%s", resp.Body)
	}
}

func TestPreviewEmptyFormStillSucceeds(t *testing.T) {
	s := newTestServer(t)

	resp := doPreview(t, s, newMultipartBody())
	if !resp.OK {
		t.Fatalf("ok = false, error = %q", resp.Error)
	}
	if !strings.Contains(resp.Body, "(none detected)") {
		t.Errorf("body missing none-detected placeholder:\n%s", resp.Body)
	}
}

func TestPreviewRejectsTooManyFiles(t *testing.T) {
	s := newTestServer(t)
	s.cfg.Upload.MaxFiles = 1

	body := newMultipartBody()
	body.file("files", "a.tsv", []byte("OC-1\tA\n"))
	body.file("files", "b.tsv", []byte("OC-2\tB\n"))

	resp := doPreview(t, s, body)
	if resp.OK {
		t.Fatal("ok = true, want rejection")
	}
	if !strings.Contains(resp.Error, "too many files") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestPreviewRequestTooLarge(t *testing.T) {
	s := newTestServer(t)
	s.cfg.Upload.MaxRequestSize = 64

	body := newMultipartBody()
	body.file("files", "big.tsv", bytes.Repeat([]byte("OC-1\tA\n"), 100))

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, body.request("/api/preview"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDownloadReturnsAttachment(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{}
	form.Set("subject", "Planned Network Maintenance – [NET-1]")
	form.Set("body", "Dear Customer,\n\nDetails follow.")

	req := httptest.NewRequest(http.MethodPost, "/download.txt", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment; filename=") || !strings.Contains(cd, "maintenance_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	data, _ := io.ReadAll(rec.Body)
	want := "Planned Network Maintenance – [NET-1]\n\nDear Customer,\n\nDetails follow."
	if string(data) != want {
		t.Errorf("body = %q, want %q", string(data), want)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestIndexServesForm(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/preview") {
		t.Error("page does not reference the preview endpoint")
	}
}

func TestRateLimiterBlocksAfterBudget(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	if !rl.allow("10.0.0.1") || !rl.allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("10.0.0.1") {
		t.Error("third request should be blocked")
	}
	// Independent budget per IP
	if !rl.allow("10.0.0.2") {
		t.Error("other IP should not be affected")
	}
}
