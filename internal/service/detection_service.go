package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/domain"
	"github.com/vbonduro/plantcare/internal/photostore"
	"github.com/vbonduro/plantcare/internal/render"
)

// ErrBusy is returned when an analysis is requested while one is running.
var ErrBusy = errors.New("an analysis is already running")

// Detection is the disease-detection state of one scope: the selected leaf
// image, the last successful diagnosis for it, and the last error.
type Detection struct {
	mu        sync.Mutex
	imageKey  string
	mimeType  string
	result    *domain.DiagnosisResult
	lastErr   error
	analyzing bool
}

func NewDetection() *Detection {
	return &Detection{}
}

// DetectionSnapshot is a point-in-time copy of a Detection.
type DetectionSnapshot struct {
	HasImage  bool
	MIMEType  string
	Result    *domain.DiagnosisResult
	Err       error
	Analyzing bool
}

type DetectionService struct {
	gateway ai.Gateway
	photos  photostore.PhotoStore
	logger  *slog.Logger
}

func NewDetectionService(gateway ai.Gateway, photos photostore.PhotoStore, logger *slog.Logger) *DetectionService {
	return &DetectionService{gateway: gateway, photos: photos, logger: logger}
}

// SelectImage stores a new leaf image for d, discarding the previous image,
// its diagnosis and any error.
func (s *DetectionService) SelectImage(ctx context.Context, d *Detection, imageData []byte, mimeType string) error {
	if len(imageData) == 0 {
		return ai.ErrEmptyInput
	}

	key, err := s.photos.Save(ctx, "leaf", mimeType, bytes.NewReader(imageData))
	if err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	s.logger.Debug("leaf image saved", "storage_key", key, "mime_type", mimeType, "bytes", len(imageData))

	d.mu.Lock()
	oldKey := d.imageKey
	d.imageKey = key
	d.mimeType = mimeType
	d.result = nil
	d.lastErr = nil
	d.mu.Unlock()

	s.deleteImage(ctx, oldKey)
	return nil
}

// Analyze diagnoses the selected image. On failure the previous diagnosis,
// if any, is kept and the error is recorded for display.
func (s *DetectionService) Analyze(ctx context.Context, d *Detection, credential string) (*domain.DiagnosisResult, error) {
	d.mu.Lock()
	var err error
	switch {
	case strings.TrimSpace(credential) == "":
		err = ai.ErrMissingCredential
	case d.imageKey == "":
		err = ai.ErrEmptyInput
	case d.analyzing:
		d.mu.Unlock()
		return nil, ErrBusy
	}
	if err != nil {
		d.lastErr = err
		d.mu.Unlock()
		return nil, err
	}
	key, mimeType := d.imageKey, d.mimeType
	d.analyzing = true
	d.lastErr = nil
	d.mu.Unlock()

	result, err := s.diagnose(ctx, key, mimeType, credential)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.analyzing = false
	if d.imageKey != key {
		s.logger.Info("discarding diagnosis for replaced image", "storage_key", key)
		return result, err
	}
	if err != nil {
		d.lastErr = err
		return nil, err
	}
	d.result = result
	return result, nil
}

func (s *DetectionService) diagnose(ctx context.Context, key, mimeType, credential string) (*domain.DiagnosisResult, error) {
	rc, _, err := s.photos.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	imageData, err := io.ReadAll(rc)
	if cerr := rc.Close(); cerr != nil {
		s.logger.Error("failed to close image", "storage_key", key, "error", cerr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	s.logger.Info("vision analysis started", "storage_key", key, "bytes", len(imageData))
	raw, err := s.gateway.Invoke(ctx, ai.Request{
		Capability: ai.CapabilityVision,
		Credential: credential,
		Prompt:     ai.PromptFor(ai.CapabilityVision, ""),
		Image:      &ai.Image{Data: imageData, MIMEType: mimeType},
	})
	if err != nil {
		s.logger.Error("vision analysis failed", "storage_key", key, "error", err)
		return nil, err
	}

	result, err := render.ParseDiagnosis(raw)
	if err != nil {
		s.logger.Warn("vision response could not be parsed", "storage_key", key, "error", err, "raw_response", raw)
		return nil, err
	}
	s.logger.Info("vision analysis complete", "storage_key", key,
		"disease", result.DiseaseName, "confidence", result.Confidence, "severity", result.Severity)
	return result, nil
}

// Clear removes the image, diagnosis and error of d.
func (s *DetectionService) Clear(ctx context.Context, d *Detection) {
	d.mu.Lock()
	oldKey := d.imageKey
	d.imageKey = ""
	d.mimeType = ""
	d.result = nil
	d.lastErr = nil
	d.mu.Unlock()

	s.deleteImage(ctx, oldKey)
}

// ClearCredentialError drops a missing or rejected credential error from d
// once the user has supplied a new key. Other errors are kept.
func (s *DetectionService) ClearCredentialError(d *Detection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ai.NeedsCredential(d.lastErr) {
		d.lastErr = nil
	}
}

// Image opens the selected image of d.
func (s *DetectionService) Image(ctx context.Context, d *Detection) (io.ReadCloser, string, error) {
	d.mu.Lock()
	key := d.imageKey
	d.mu.Unlock()
	if key == "" {
		return nil, "", photostore.ErrNotFound
	}
	return s.photos.Get(ctx, key)
}

func (s *DetectionService) Snapshot(d *Detection) DetectionSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DetectionSnapshot{
		HasImage:  d.imageKey != "",
		MIMEType:  d.mimeType,
		Result:    d.result,
		Err:       d.lastErr,
		Analyzing: d.analyzing,
	}
}

func (s *DetectionService) deleteImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.photos.Delete(ctx, key); err != nil && !errors.Is(err, photostore.ErrNotFound) {
		s.logger.Error("failed to delete leaf image", "storage_key", key, "error", err)
	}
}
