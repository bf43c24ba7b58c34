// Package encoder turns payload strings into QR code images. Symbol layout and
// error correction are delegated to third-party libraries; this package only
// selects the engine, adds the quiet zone and serialises the result.
package encoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

// ErrUnknownEngine is returned by New for an unsupported engine name.
var ErrUnknownEngine = errors.New("unknown encoder engine")

const (
	EngineSkip2     = "skip2"
	EngineBoombuler = "boombuler"
)

// Engines lists the available engine names; the first is the default.
var Engines = []string{EngineSkip2, EngineBoombuler}

// Encoder renders content as a QR code image including its quiet zone.
type Encoder interface {
	Encode(content string, opts Options) (image.Image, error)
	Name() string
}

// New returns the engine registered under name. An empty name selects skip2.
func New(name string) (Encoder, error) {
	switch name {
	case "", EngineSkip2:
		return skip2Engine{}, nil
	case EngineBoombuler:
		return boombulerEngine{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
}

// EncodePNG renders content and returns PNG bytes. Output is byte-identical
// for identical input.
func EncodePNG(enc Encoder, content string, opts Options) ([]byte, error) {
	img, err := enc.Encode(content, opts)
	if err != nil {
		return nil, err
	}
	return PNG(img)
}

// PNG serialises img.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// skip2Engine wraps github.com/skip2/go-qrcode.
type skip2Engine struct{}

func (skip2Engine) Name() string { return EngineSkip2 }

func (skip2Engine) Encode(content string, opts Options) (image.Image, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	q, err := qrcode.New(content, skip2Level(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("skip2 encode: %w", err)
	}
	// The library only knows a fixed 4-module border, so the quiet zone is
	// added by pad instead.
	q.DisableBorder = true
	q.ForegroundColor = color.Black
	q.BackgroundColor = color.White

	// A negative size is interpreted as pixels per module.
	symbol := q.Image(-opts.ModuleSize)
	return pad(symbol, opts), nil
}

func skip2Level(l Level) qrcode.RecoveryLevel {
	switch l {
	case LevelLow:
		return qrcode.Low
	case LevelMedium:
		return qrcode.Medium
	case LevelQuartile:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}

// boombulerEngine wraps github.com/boombuler/barcode/qr.
type boombulerEngine struct{}

func (boombulerEngine) Name() string { return EngineBoombuler }

func (boombulerEngine) Encode(content string, opts Options) (image.Image, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	code, err := qr.Encode(content, boombulerLevel(opts.Level), qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("boombuler encode: %w", err)
	}
	dim := code.Bounds().Dx()
	scaled, err := barcode.Scale(code, dim*opts.ModuleSize, dim*opts.ModuleSize)
	if err != nil {
		return nil, fmt.Errorf("boombuler scale: %w", err)
	}
	return pad(scaled, opts), nil
}

func boombulerLevel(l Level) qr.ErrorCorrectionLevel {
	switch l {
	case LevelLow:
		return qr.L
	case LevelMedium:
		return qr.M
	case LevelQuartile:
		return qr.Q
	default:
		return qr.H
	}
}

// pad surrounds a border-less symbol with Border modules of white.
func pad(symbol image.Image, opts Options) image.Image {
	margin := opts.Border * opts.ModuleSize
	b := symbol.Bounds()
	canvas := imaging.New(b.Dx()+2*margin, b.Dy()+2*margin, color.White)
	return imaging.Paste(canvas, symbol, image.Pt(margin, margin))
}
