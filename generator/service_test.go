package generator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrgen/qrgen/encoder"
	"github.com/qrgen/qrgen/output"
	"github.com/qrgen/qrgen/payload"
	"github.com/qrgen/qrgen/store"
)

type fakeHistory struct {
	mu   sync.Mutex
	gens []store.Generation
	err  error
}

func (f *fakeHistory) SaveGeneration(g *store.Generation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.gens = append(f.gens, *g)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*Service, *fakeHistory) {
	t.Helper()
	enc, err := encoder.New(encoder.EngineSkip2)
	require.NoError(t, err)
	w := output.NewWriter(filepath.Join(t.TempDir(), output.DefaultDir))
	w.Now = func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }
	h := &fakeHistory{}
	return &Service{Encoder: enc, Writer: w, History: h, Log: discardLogger()}, h
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	svc, hist := newTestService(t)
	res, err := svc.Generate(context.Background(), Request{
		Kind:     payload.KindURL,
		Content:  "https://github.com",
		Filename: "github",
		Options:  encoder.DefaultOptions(),
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(svc.Writer.Dir, "github.png"), res.Path)
	onDisk, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, res.PNG, onDisk)

	decoded, err := encoder.DecodeFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com", decoded)

	require.Len(t, hist.gens, 1)
	assert.Equal(t, res.ID, hist.gens[0].ID)
	assert.Equal(t, "url", hist.gens[0].Kind)
	assert.Equal(t, "skip2", hist.gens[0].Engine)
	assert.Equal(t, "H", hist.gens[0].Level)
}

func TestGenerateTimestampName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	res, err := svc.Generate(context.Background(), Request{Content: "hello", Options: encoder.DefaultOptions()})
	require.NoError(t, err)
	assert.Equal(t, "qrcode_20261016_120000.png", filepath.Base(res.Path))
	assert.Equal(t, payload.KindText, res.Kind)
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	svc, hist := newTestService(t)

	_, err := svc.Generate(context.Background(), Request{Content: "  ", Options: encoder.DefaultOptions()})
	assert.ErrorIs(t, err, payload.ErrRequired)

	_, err = svc.Generate(context.Background(), Request{Content: "x", Options: encoder.Options{}})
	assert.Error(t, err)

	assert.Empty(t, hist.gens)
	_, statErr := os.Stat(svc.Writer.Dir)
	assert.True(t, os.IsNotExist(statErr), "no file or dir should be written on failure")
}

func TestGenerateHistoryFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	svc, hist := newTestService(t)
	hist.err = errors.New("disk full")

	res, err := svc.Generate(context.Background(), Request{Content: "hello", Options: encoder.DefaultOptions()})
	require.NoError(t, err)
	assert.FileExists(t, res.Path)
}

func TestBatch(t *testing.T) {
	t.Parallel()

	svc, hist := newTestService(t)
	tooLong := strings.Repeat("x", 8000) // exceeds QR capacity

	report := svc.Batch(context.Background(), []string{"https://a.example", tooLong, "https://c.example"}, encoder.DefaultOptions())
	require.Len(t, report.Items, 3)
	assert.Equal(t, 2, report.Succeeded())

	assert.NoError(t, report.Items[0].Err)
	assert.Equal(t, "qrcode_1.png", filepath.Base(report.Items[0].Path))
	assert.Error(t, report.Items[1].Err)
	assert.NoError(t, report.Items[2].Err)
	assert.Equal(t, "qrcode_3.png", filepath.Base(report.Items[2].Path))

	assert.Equal(t, []string{report.Items[0].Path, report.Items[2].Path}, report.Paths())
	assert.Len(t, hist.gens, 2)
}

func TestBatchCancelled(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := svc.Batch(ctx, []string{"a", "b"}, encoder.DefaultOptions())
	assert.Equal(t, 0, report.Succeeded())
	for _, it := range report.Items {
		assert.ErrorIs(t, it.Err, context.Canceled)
	}
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	lines, err := ReadLines(strings.NewReader("https://a\n\n   \n  https://b  \r\nc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a", "https://b", "c"}, lines)
}

func TestWebhookSender(t *testing.T) {
	t.Parallel()

	var got GenerationEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	svc, _ := newTestService(t)
	svc.Notifier = NewWebhookSender(srv.URL, time.Second, discardLogger())

	res, err := svc.Generate(context.Background(), Request{
		Kind:    payload.KindPhone,
		Content: "tel:10086",
		Options: encoder.DefaultOptions(),
	})
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, "phone", got.Kind)
	assert.Equal(t, res.Path, got.Path)
	assert.Equal(t, len(res.PNG), got.Bytes)
}

func TestWebhookSenderNoURL(t *testing.T) {
	t.Parallel()

	ws := NewWebhookSender("", 0, discardLogger())
	assert.NoError(t, ws.Send(context.Background(), &GenerationEvent{ID: "x"}))
}

func TestWebhookSenderUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ws := NewWebhookSender(url, time.Second, discardLogger())
	assert.Error(t, ws.Send(context.Background(), &GenerationEvent{ID: "x"}))
}
