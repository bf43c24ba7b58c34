package output

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedWriter(t *testing.T) *Writer {
	t.Helper()
	w := NewWriter(filepath.Join(t.TempDir(), DefaultDir))
	w.Now = func() time.Time { return time.Date(2026, 10, 16, 9, 5, 3, 0, time.UTC) }
	return w
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var sb strings.Builder
	require.NoError(t, png.Encode(&sb, img))
	return []byte(sb.String())
}

func TestNames(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "qrcode_20260102_030405.png", TimestampName(at))
	assert.Equal(t, "qrcode_3.png", BatchName(3))

	for in, want := range map[string]string{
		"menu":       "menu.png",
		"menu.png":   "menu.png",
		"MENU.PNG":   "MENU.PNG",
		"menu.jpg":   "menu.jpg.png",
		"a.png.bak":  "a.png.bak.png",
		"dir/sub/qr": "dir/sub/qr.png",
	} {
		got := EnsureExt(in)
		assert.Equal(t, want, got, in)
		assert.True(t, strings.HasSuffix(strings.ToLower(got), Ext))
	}
}

func TestWriterSave(t *testing.T) {
	t.Parallel()

	w := fixedWriter(t)
	data := testPNG(t)

	path, err := w.Save("", data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir, "qrcode_20261016_090503.png"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	path, err = w.Save("  github  ", data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir, "github.png"), path)

	path, err = w.Save("nested/dir/code", data)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWriterRejectsNamesOutsideDir(t *testing.T) {
	t.Parallel()

	w := fixedWriter(t)
	for _, name := range []string{"../escaped", "../../x", "sub/../../x"} {
		_, err := w.Save(name, testPNG(t))
		assert.ErrorIs(t, err, ErrOutsideDir, name)
	}
	_, err := os.Stat(filepath.Join(filepath.Dir(w.Dir), "escaped.png"))
	assert.True(t, os.IsNotExist(err))

	path, err := w.Path("sub/../inside")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir, "inside.png"), path)
}

func TestWriterSaveFailsOnFileInPlaceOfDir(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	blocker := filepath.Join(base, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := NewWriter(blocker)
	_, err := w.Save("code", testPNG(t))
	assert.Error(t, err)
}

func TestWriterSaveAs(t *testing.T) {
	t.Parallel()

	w := fixedWriter(t)
	src, err := w.Save("orig", testPNG(t))
	require.NoError(t, err)

	dst, err := w.SaveAs(src, filepath.Join(t.TempDir(), "copy"))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(dst))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	_, err = w.SaveAs(src, "  ")
	assert.Error(t, err)

	_, err = w.SaveAs(filepath.Join(w.Dir, "missing.png"), filepath.Join(t.TempDir(), "x.png"))
	assert.Error(t, err)
}

func TestWriterContains(t *testing.T) {
	t.Parallel()

	w := NewWriter(filepath.Join(t.TempDir(), "out"))
	assert.True(t, w.Contains(filepath.Join(w.Dir, "a.png")))
	assert.True(t, w.Contains(filepath.Join(w.Dir, "sub", "a.png")))
	assert.False(t, w.Contains(filepath.Join(w.Dir, "..", "a.png")))
	assert.False(t, w.Contains("/etc/passwd"))
}

func TestWriterOpenFolder(t *testing.T) {
	t.Parallel()

	w := fixedWriter(t)
	path, err := w.Save("x", testPNG(t))
	require.NoError(t, err)

	var opened string
	w.Open = func(dir string) error {
		opened = dir
		return nil
	}
	require.NoError(t, w.OpenFolder(path))
	abs, err := filepath.Abs(w.Dir)
	require.NoError(t, err)
	assert.Equal(t, abs, opened)

	w.Open = func(string) error { return errors.New("no display") }
	assert.Error(t, w.OpenFolder(path))

	assert.Error(t, w.OpenFolder(filepath.Join(t.TempDir(), "gone", "x.png")))
}
