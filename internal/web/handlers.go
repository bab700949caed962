package web

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/opsdesk/maintgen/internal/core"
	"github.com/opsdesk/maintgen/internal/logging"
)

// previewResponse is the JSON envelope for /api/preview.
type previewResponse struct {
	OK                 bool   `json:"ok"`
	Subject            string `json:"subject,omitempty"`
	Body               string `json:"body,omitempty"`
	CalculatedDowntime string `json:"calculated_downtime,omitempty"`
	GenerationID       string `json:"generation_id,omitempty"`
	Error              string `json:"error,omitempty"`
}

// handleIndex serves the form page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handlePreview builds a notification from the submitted form and inventory
// files. Input problems are reported inside the JSON envelope with ok=false
// so the form page can render them inline; the HTTP status stays 200.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxRequestSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "request too large or invalid form")
		return
	}

	req := core.EmailRequest{
		JiraRef:          r.FormValue("jira_ref"),
		PoP:              r.FormValue("pop"),
		Equipment:        r.FormValue("equipment"),
		Line:             r.FormValue("line"),
		StartDate:        r.FormValue("start_date"),
		StartTime:        r.FormValue("start_time"),
		EndDate:          r.FormValue("end_date"),
		EndTime:          r.FormValue("end_time"),
		UTCOffset:        "+0",
		OverrideDowntime: r.FormValue("override_downtime"),
		PurposePresets:   r.Form["purpose_presets"],
		PurposeFree:      r.FormValue("purpose_free"),
	}
	if _, ok := r.Form["utc_single"]; ok {
		req.UTCOffset = r.FormValue("utc_single")
	}

	if r.MultipartForm != nil {
		uploads := r.MultipartForm.File["files"]
		if len(uploads) > s.cfg.Upload.MaxFiles {
			writeJSON(w, previewResponse{OK: false, Error: fmt.Sprintf("too many files (limit %d)", s.cfg.Upload.MaxFiles)})
			return
		}
		for _, fh := range uploads {
			f, err := fh.Open()
			if err != nil {
				writeJSON(w, previewResponse{OK: false, Error: fmt.Sprintf("read %s: file unreadable", fh.Filename)})
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				writeJSON(w, previewResponse{OK: false, Error: fmt.Sprintf("read %s: file unreadable", fh.Filename)})
				return
			}
			s.sink.RecordUpload(len(data))
			req.Files = append(req.Files, data)
		}
	}

	genID := uuid.NewString()
	logger := logging.FromContext(r.Context())

	start := time.Now()
	email, err := s.service.Preview(r.Context(), req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.sink.RecordPreview("error", elapsed)
		logger.Error("preview failed", "generation_id", genID, "error", err)
		writeJSON(w, previewResponse{OK: false, Error: "failed to compose notification"})
		return
	}
	s.sink.RecordPreview("ok", elapsed)
	logger.Info("preview composed",
		"generation_id", genID,
		"files", len(req.Files),
		"calculated_downtime", email.CalculatedDowntime,
	)

	writeJSON(w, previewResponse{
		OK:                 true,
		Subject:            email.Subject,
		Body:               email.Body,
		CalculatedDowntime: email.CalculatedDowntime,
		GenerationID:       genID,
	})
}

// handleDownload returns the composed notification as a plain text attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxRequestSize)
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid form")
		return
	}

	subject := r.FormValue("subject")
	body := r.FormValue("body")
	text := core.RenderPlainText(subject, body)

	filename := fmt.Sprintf("maintenance_%s.txt", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write([]byte(text))
}
