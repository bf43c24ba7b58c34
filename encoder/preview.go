package encoder

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/mdp/qrterminal/v3"
	rscqr "rsc.io/qr"
)

// PreviewSize is the bounding box of the form's thumbnail.
const PreviewSize = 280

// Thumbnail scales img down to fit a box x box square, preserving aspect
// ratio. Images already inside the box are returned unchanged.
func Thumbnail(img image.Image, box int) image.Image {
	b := img.Bounds()
	if b.Dx() <= box && b.Dy() <= box {
		return img
	}
	return imaging.Fit(img, box, box, imaging.Lanczos)
}

// PrintTerminal draws content to w using half-block characters.
func PrintTerminal(w io.Writer, content string, level Level, quietZone int) {
	qrterminal.GenerateWithConfig(content, qrterminal.Config{
		Level:          terminalLevel(level),
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
		QuietZone:      quietZone,
	})
}

func terminalLevel(l Level) rscqr.Level {
	switch l {
	case LevelLow:
		return rscqr.L
	case LevelMedium:
		return rscqr.M
	case LevelQuartile:
		return rscqr.Q
	default:
		return rscqr.H
	}
}
