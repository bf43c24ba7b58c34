// Package generator wires payloads, the QR encoder and the output directory
// into the single "render payload to image file" operation shared by the CLI
// and the form server.
package generator

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qrgen/qrgen/encoder"
	"github.com/qrgen/qrgen/output"
	"github.com/qrgen/qrgen/payload"
	"github.com/qrgen/qrgen/store"
)

// HistoryRecorder persists a record of each written file.
type HistoryRecorder interface {
	SaveGeneration(g *store.Generation) error
}

// Notifier is told about each written file.
type Notifier interface {
	Send(ctx context.Context, evt *GenerationEvent) error
}

// Request describes one image to produce.
type Request struct {
	Kind     payload.Kind
	Content  string
	Filename string // empty selects a timestamp name
	Options  encoder.Options
}

// Result is a successfully written image.
type Result struct {
	ID      string
	Kind    payload.Kind
	Content string
	Path    string
	PNG     []byte
	Image   image.Image
}

// Service produces QR images. History and Notifier are optional.
type Service struct {
	Encoder  encoder.Encoder
	Writer   *output.Writer
	History  HistoryRecorder
	Notifier Notifier
	Log      *slog.Logger
}

// Generate encodes req.Content and writes it under req.Filename. Failures
// to record history or notify are logged but do not fail the call.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content", payload.ErrRequired)
	}
	if req.Kind == "" {
		req.Kind = payload.KindText
	}

	img, err := s.Encoder.Encode(req.Content, req.Options)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	data, err := encoder.PNG(img)
	if err != nil {
		return nil, err
	}
	path, err := s.Writer.Save(req.Filename, data)
	if err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	res := &Result{
		ID:      uuid.NewString(),
		Kind:    req.Kind,
		Content: req.Content,
		Path:    path,
		PNG:     data,
		Image:   img,
	}
	s.Log.Info("qr code written", "path", path, "kind", req.Kind, "bytes", len(data))

	now := time.Now().Unix()
	if s.History != nil {
		gen := &store.Generation{
			ID:         res.ID,
			Kind:       string(req.Kind),
			Content:    req.Content,
			Path:       path,
			Engine:     s.Encoder.Name(),
			Level:      string(req.Options.Level),
			ModuleSize: req.Options.ModuleSize,
			Border:     req.Options.Border,
			CreatedAt:  now,
		}
		if err := s.History.SaveGeneration(gen); err != nil {
			s.Log.Error("failed to record history", "error", err, "path", path)
		}
	}

	if s.Notifier != nil {
		evt := &GenerationEvent{
			ID:        res.ID,
			Kind:      string(req.Kind),
			Content:   req.Content,
			Path:      path,
			Bytes:     len(data),
			Timestamp: now,
		}
		if err := s.Notifier.Send(ctx, evt); err != nil {
			s.Log.Error("failed to send generation event", "error", err, "path", path)
		}
	}

	return res, nil
}

// BatchItem is the outcome of one batch entry.
type BatchItem struct {
	Index   int
	Content string
	Path    string
	Err     error
}

// BatchReport collects the outcome of every entry, in input order.
type BatchReport struct {
	Items []BatchItem
}

// Succeeded returns the number of files written.
func (r *BatchReport) Succeeded() int {
	n := 0
	for _, it := range r.Items {
		if it.Err == nil {
			n++
		}
	}
	return n
}

// Paths returns the written file paths in input order.
func (r *BatchReport) Paths() []string {
	var out []string
	for _, it := range r.Items {
		if it.Err == nil {
			out = append(out, it.Path)
		}
	}
	return out
}

// Batch generates one image per entry, named qrcode_<i>.png. A failing entry
// is recorded and the batch continues. Cancelling ctx stops before the next
// entry.
func (s *Service) Batch(ctx context.Context, contents []string, opts encoder.Options) *BatchReport {
	report := &BatchReport{Items: make([]BatchItem, 0, len(contents))}
	for i, content := range contents {
		item := BatchItem{Index: i + 1, Content: content}
		if err := ctx.Err(); err != nil {
			item.Err = err
			report.Items = append(report.Items, item)
			continue
		}
		res, err := s.Generate(ctx, Request{
			Kind:     payload.KindText,
			Content:  content,
			Filename: output.BatchName(i + 1),
			Options:  opts,
		})
		if err != nil {
			item.Err = err
			s.Log.Warn("batch item failed", "index", i+1, "error", err)
		} else {
			item.Path = res.Path
		}
		report.Items = append(report.Items, item)
	}
	return report
}

// ReadLines returns the trimmed, non-empty lines of r.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}
