package encoder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLevel is returned by ParseLevel for anything other than L, M, Q or H.
var ErrInvalidLevel = errors.New("invalid error correction level")

// Level is a QR error-correction level.
type Level string

const (
	LevelLow      Level = "L" // ~7% recovery
	LevelMedium   Level = "M" // ~15%
	LevelQuartile Level = "Q" // ~25%
	LevelHigh     Level = "H" // ~30%
)

// Levels lists the selectable levels with their form labels.
var Levels = []struct {
	Level Level
	Label string
}{
	{LevelLow, "L (7%)"},
	{LevelMedium, "M (15%)"},
	{LevelQuartile, "Q (25%)"},
	{LevelHigh, "H (30%)"},
}

// ParseLevel accepts "L", "m", "H (30%)" and similar labels.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidLevel)
	}
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	switch l := Level(strings.ToUpper(s)); l {
	case LevelLow, LevelMedium, LevelQuartile, LevelHigh:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Sizes are the module pixel sizes offered by the form.
var Sizes = []int{5, 10, 15, 20}

const (
	DefaultModuleSize = 10
	DefaultBorder     = 4
	DefaultLevel      = LevelHigh
)

// Options controls how a payload is rendered.
type Options struct {
	ModuleSize int   `json:"module_size" yaml:"module_size"` // pixels per module
	Border     int   `json:"border" yaml:"border"`           // quiet zone, in modules
	Level      Level `json:"level" yaml:"level"`
}

// DefaultOptions returns box size 10, a 4-module border and level H.
func DefaultOptions() Options {
	return Options{
		ModuleSize: DefaultModuleSize,
		Border:     DefaultBorder,
		Level:      DefaultLevel,
	}
}

// Validate reports whether the options can be rendered.
func (o Options) Validate() error {
	if o.ModuleSize < 1 {
		return fmt.Errorf("module size must be at least 1, got %d", o.ModuleSize)
	}
	if o.Border < 0 {
		return fmt.Errorf("border must not be negative, got %d", o.Border)
	}
	if _, err := ParseLevel(string(o.Level)); err != nil {
		return err
	}
	return nil
}
