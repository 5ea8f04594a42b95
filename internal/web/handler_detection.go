package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/photostore"
	"github.com/vbonduro/plantcare/internal/service"
)

const maxPhotoSize = 10 * 1024 * 1024 // 10 MB

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniffing standard (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

func (s *Server) detectionData(r *http.Request, id string, ws *workspace) map[string]any {
	snap := s.detection.Snapshot(ws.detection)
	credential := s.workspaces.credential(ws)
	data := s.pageData(r, id, "detection")
	data["Detection"] = snap
	data["Error"] = ai.UserMessage(ai.CapabilityVision, snap.Err)
	data["ShowCredential"] = credential == "" || ai.NeedsCredential(snap.Err) || r.URL.Query().Get("key") == "change"
	data["HasCredential"] = credential != ""
	data["Return"] = "/detection"
	return data
}

func (s *Server) handleDetectionPage(w http.ResponseWriter, r *http.Request) {
	id, ws := s.workspace(w, r)
	if err := s.renderPage(w, http.StatusOK, s.detectionData(r, id, ws),
		"pages/detection.html", "partials/detection_panel.html", "partials/credential_form.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// respondDetection re-renders the detection panel for htmx callers and
// redirects everyone else back to the page.
func (s *Server) respondDetection(w http.ResponseWriter, r *http.Request, id string, ws *workspace) {
	if !isHTMX(r) {
		http.Redirect(w, r, "/detection", http.StatusSeeOther)
		return
	}
	tmpl := "partials/detection_panel.html"
	if err := s.renderPartial(w, tmpl, s.detectionData(r, id, ws)); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

func (s *Server) handleSelectImage(w http.ResponseWriter, r *http.Request) {
	id, ws := s.workspace(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1024*1024)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file required", http.StatusBadRequest)
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	imageData, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		s.logger.Error("read upload failed", "error", err)
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		http.Error(w, "unsupported image format", http.StatusBadRequest)
		return
	}

	if err := s.detection.SelectImage(r.Context(), ws.detection, imageData, mimeType); err != nil {
		if errors.Is(err, ai.ErrEmptyInput) {
			http.Error(w, "image file required", http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to store image", http.StatusInternalServerError)
		s.logger.Error("select image failed", "error", err)
		return
	}
	s.respondDetection(w, r, id, ws)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	id, ws := s.workspace(w, r)

	// The analysis runs to completion even if the client goes away; its
	// result is kept for the next page view.
	_, err := s.detection.Analyze(context.WithoutCancel(r.Context()), ws.detection, s.workspaces.credential(ws))
	if err != nil && !errors.Is(err, service.ErrBusy) {
		s.logger.Info("analysis did not produce a result", "error", err)
	}
	s.respondDetection(w, r, id, ws)
}

func (s *Server) handleClearImage(w http.ResponseWriter, r *http.Request) {
	id, ws := s.workspace(w, r)
	s.detection.Clear(r.Context(), ws.detection)
	s.respondDetection(w, r, id, ws)
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	_, ws := s.workspace(w, r)

	reader, mimeType, err := s.detection.Image(r.Context(), ws.detection)
	if errors.Is(err, photostore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "failed to load image", http.StatusInternalServerError)
		s.logger.Error("load image failed", "error", err)
		return
	}
	defer closeWithLog(reader, "photo reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
