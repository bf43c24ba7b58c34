// Package output handles where generated QR images land on disk: file
// naming, directory creation, copies to user-chosen locations and revealing
// the folder in the desktop file manager.
package output

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const (
	// DefaultDir is the directory images are written to when none is configured.
	DefaultDir = "qr_codes"
	// Ext is the extension every written image carries.
	Ext = ".png"

	timestampLayout = "20060102_150405"
)

// ErrOutsideDir is returned for file names that resolve outside the output
// directory.
var ErrOutsideDir = errors.New("file name escapes the output directory")

// TimestampName returns qrcode_YYYYMMDD_HHMMSS.png for t.
func TimestampName(t time.Time) string {
	return "qrcode_" + t.Format(timestampLayout) + Ext
}

// BatchName returns the file name of the i-th (1-based) batch item.
func BatchName(i int) string {
	return "qrcode_" + strconv.Itoa(i) + Ext
}

// EnsureExt appends .png unless name already ends with it.
func EnsureExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), Ext) {
		return name
	}
	return name + Ext
}

// Writer saves images under Dir.
type Writer struct {
	Dir string

	// Now and Open are replaceable for tests.
	Now  func() time.Time
	Open func(dir string) error
}

// NewWriter returns a Writer rooted at dir, or DefaultDir when dir is empty.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{
		Dir:  dir,
		Now:  time.Now,
		Open: openInFileManager,
	}
}

// Path resolves the final location of name. An empty name gets a timestamp.
// Names may reach into subdirectories but never above Dir.
func (w *Writer) Path(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = TimestampName(w.Now())
	}
	path := filepath.Join(w.Dir, EnsureExt(name))
	if !w.Contains(path) {
		return "", fmt.Errorf("%w: %q", ErrOutsideDir, name)
	}
	return path, nil
}

// Save writes data to the resolved path of name, creating directories as
// needed, and returns that path.
func (w *Writer) Save(name string, data []byte) (string, error) {
	path, err := w.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output dir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// SaveAs copies a previously written image to dst and returns the final
// destination path. The image is decoded and re-encoded so a copy under a
// different extension still holds a valid image.
func (w *Writer) SaveAs(src, dst string) (string, error) {
	dst = strings.TrimSpace(dst)
	if dst == "" {
		return "", errors.New("destination path is required")
	}
	if filepath.Ext(dst) == "" {
		dst += Ext
	}

	img, err := imaging.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating dir for %s: %w", dst, err)
	}
	if err := imaging.Save(img, dst); err != nil {
		return "", fmt.Errorf("saving %s: %w", dst, err)
	}
	return dst, nil
}

// Contains reports whether path lies inside the writer's directory.
func (w *Writer) Contains(path string) bool {
	root, err := filepath.Abs(w.Dir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// OpenFolder reveals the directory containing path.
func (w *Writer) OpenFolder(path string) error {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("resolving folder of %s: %w", path, err)
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("folder %s: %w", dir, err)
	}
	return w.Open(dir)
}

func openInFileManager(dir string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", dir)
	case "darwin":
		cmd = exec.Command("open", dir)
	default:
		cmd = exec.Command("xdg-open", dir)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", dir, err)
	}
	return cmd.Process.Release()
}
