package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/ai/stub"
	"github.com/vbonduro/plantcare/internal/domain"
	"github.com/vbonduro/plantcare/internal/photostore"
)

// stubPhotoStore is a minimal in-memory photostore.PhotoStore for tests.
type stubPhotoStore struct {
	mu      sync.Mutex
	saved   map[string][]byte
	n       int
	saveErr error
}

func newStubPhotoStore() *stubPhotoStore {
	return &stubPhotoStore{saved: make(map[string][]byte)}
}

func (s *stubPhotoStore) Save(_ context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, _ := io.ReadAll(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	key := fmt.Sprintf("%s_%d%s", prefix, s.n, photostore.ExtForMIME(mimeType))
	s.saved[key] = data
	return key, nil
}

func (s *stubPhotoStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.saved[key]
	if !ok {
		return nil, "", photostore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), photostore.MIMEForKey(key), nil
}

func (s *stubPhotoStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saved[key]; !ok {
		return photostore.ErrNotFound
	}
	delete(s.saved, key)
	return nil
}

func (s *stubPhotoStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

const mildewJSON = "```json\n" + `{"diseaseName":"Powdery Mildew","confidence":"High","severity":"Moderate",
"description":"White growth.","symptoms":["spots"],"causes":["humidity"],"treatment":["prune"],
"prevention":["airflow"]}` + "\n```"

func newTestDetection(t *testing.T) (*DetectionService, *stub.Gateway, *stubPhotoStore) {
	t.Helper()
	gw := stub.New()
	photos := newStubPhotoStore()
	return NewDetectionService(gw, photos, slog.Default()), gw, photos
}

func TestAnalyzeSuccess(t *testing.T) {
	svc, gw, _ := newTestDetection(t)
	gw.Set(mildewJSON, nil)
	d := NewDetection()
	ctx := context.Background()

	require.NoError(t, svc.SelectImage(ctx, d, []byte{0x89, 'P', 'N', 'G'}, "image/png"))
	result, err := svc.Analyze(ctx, d, "key")

	require.NoError(t, err)
	assert.Equal(t, "Powdery Mildew", result.DiseaseName)
	assert.Equal(t, domain.SeverityModerate, result.Severity)

	snap := svc.Snapshot(d)
	assert.True(t, snap.HasImage)
	assert.Equal(t, result, snap.Result)
	assert.NoError(t, snap.Err)
	assert.False(t, snap.Analyzing)

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, ai.CapabilityVision, calls[0].Capability)
	assert.Equal(t, ai.DiagnosisPrompt, calls[0].Prompt)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, calls[0].Image.Data)
	assert.Equal(t, "image/png", calls[0].Image.MIMEType)
}

func TestAnalyzeChecksCredentialThenImage(t *testing.T) {
	svc, gw, _ := newTestDetection(t)
	d := NewDetection()
	ctx := context.Background()

	_, err := svc.Analyze(ctx, d, "")
	assert.ErrorIs(t, err, ai.ErrMissingCredential)

	_, err = svc.Analyze(ctx, d, "key")
	assert.ErrorIs(t, err, ai.ErrEmptyInput)
	assert.ErrorIs(t, svc.Snapshot(d).Err, ai.ErrEmptyInput)
	assert.Empty(t, gw.Calls())
}

func TestClearCredentialError(t *testing.T) {
	svc, gw, _ := newTestDetection(t)
	d := NewDetection()
	ctx := context.Background()

	_, err := svc.Analyze(ctx, d, "")
	require.ErrorIs(t, err, ai.ErrMissingCredential)
	svc.ClearCredentialError(d)
	assert.NoError(t, svc.Snapshot(d).Err)

	gw.Set("", ai.ErrInvalidCredential)
	require.NoError(t, svc.SelectImage(ctx, d, []byte{0xFF, 0xD8, 0xFF}, "image/jpeg"))
	_, err = svc.Analyze(ctx, d, "bad-key")
	require.ErrorIs(t, err, ai.ErrInvalidCredential)
	svc.ClearCredentialError(d)
	assert.NoError(t, svc.Snapshot(d).Err)

	other := NewDetection()
	_, err = svc.Analyze(ctx, other, "key")
	require.ErrorIs(t, err, ai.ErrEmptyInput)
	svc.ClearCredentialError(other)
	assert.ErrorIs(t, svc.Snapshot(other).Err, ai.ErrEmptyInput)
}

func TestAnalyzeMalformedKeepsPreviousResult(t *testing.T) {
	svc, gw, _ := newTestDetection(t)
	gw.Set(mildewJSON, nil)
	d := NewDetection()
	ctx := context.Background()

	require.NoError(t, svc.SelectImage(ctx, d, []byte("img"), "image/jpeg"))
	first, err := svc.Analyze(ctx, d, "key")
	require.NoError(t, err)

	gw.Set("Sorry, I cannot help with that.", nil)
	result, err := svc.Analyze(ctx, d, "key")

	assert.ErrorIs(t, err, ai.ErrMalformedResponse)
	assert.Nil(t, result)
	snap := svc.Snapshot(d)
	assert.Equal(t, first, snap.Result)
	assert.ErrorIs(t, snap.Err, ai.ErrMalformedResponse)
}

func TestAnalyzeUpstreamError(t *testing.T) {
	svc, gw, _ := newTestDetection(t)
	gw.Set("", &ai.UpstreamError{Message: "quota exceeded"})
	d := NewDetection()
	ctx := context.Background()

	require.NoError(t, svc.SelectImage(ctx, d, []byte("img"), "image/jpeg"))
	_, err := svc.Analyze(ctx, d, "key")

	var upstream *ai.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Nil(t, svc.Snapshot(d).Result)
	assert.Equal(t, "Error: quota exceeded", ai.UserMessage(ai.CapabilityVision, svc.Snapshot(d).Err))
}

func TestSelectImageResetsResultAndDeletesOld(t *testing.T) {
	svc, _, photos := newTestDetection(t)
	d := NewDetection()
	ctx := context.Background()

	require.NoError(t, svc.SelectImage(ctx, d, []byte("one"), "image/jpeg"))
	_, err := svc.Analyze(ctx, d, "key")
	require.NoError(t, err)
	require.NotNil(t, svc.Snapshot(d).Result)

	require.NoError(t, svc.SelectImage(ctx, d, []byte("two"), "image/webp"))

	snap := svc.Snapshot(d)
	assert.Nil(t, snap.Result)
	assert.NoError(t, snap.Err)
	assert.Equal(t, "image/webp", snap.MIMEType)
	assert.Equal(t, 1, photos.count())

	rc, mime, err := svc.Image(ctx, d)
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, []byte("two"), data)
	assert.Equal(t, "image/webp", mime)
}

func TestSelectImageRejectsEmpty(t *testing.T) {
	svc, _, photos := newTestDetection(t)
	err := svc.SelectImage(context.Background(), NewDetection(), nil, "image/png")
	assert.ErrorIs(t, err, ai.ErrEmptyInput)
	assert.Zero(t, photos.count())
}

func TestClearResetsEverything(t *testing.T) {
	svc, _, photos := newTestDetection(t)
	d := NewDetection()
	ctx := context.Background()

	require.NoError(t, svc.SelectImage(ctx, d, []byte("img"), "image/jpeg"))
	_, err := svc.Analyze(ctx, d, "key")
	require.NoError(t, err)

	svc.Clear(ctx, d)

	assert.Equal(t, DetectionSnapshot{}, svc.Snapshot(d))
	assert.Zero(t, photos.count())
	_, _, err = svc.Image(ctx, d)
	assert.ErrorIs(t, err, photostore.ErrNotFound)

	// Clearing twice is harmless.
	svc.Clear(ctx, d)
}

// gatedGateway blocks until release is closed so tests can act mid-analysis.
type gatedGateway struct {
	started chan struct{}
	release chan struct{}
	reply   string
}

func (g *gatedGateway) Invoke(context.Context, ai.Request) (string, error) {
	close(g.started)
	<-g.release
	return g.reply, nil
}

func TestAnalyzeBusyAndReplacedImage(t *testing.T) {
	gw := &gatedGateway{started: make(chan struct{}), release: make(chan struct{}), reply: mildewJSON}
	svc := NewDetectionService(gw, newStubPhotoStore(), slog.Default())
	d := NewDetection()
	ctx := context.Background()
	require.NoError(t, svc.SelectImage(ctx, d, []byte("old"), "image/jpeg"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Analyze(ctx, d, "key")
	}()
	<-gw.started

	assert.True(t, svc.Snapshot(d).Analyzing)
	_, err := svc.Analyze(ctx, d, "key")
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, svc.SelectImage(ctx, d, []byte("new"), "image/jpeg"))
	close(gw.release)
	<-done

	// The diagnosis belonged to the replaced image and must not be shown.
	snap := svc.Snapshot(d)
	assert.Nil(t, snap.Result)
	assert.False(t, snap.Analyzing)
}
