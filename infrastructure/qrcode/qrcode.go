package qrcode

import (
	"image"
	"image/color"

	"github.com/go-faster/errors"
	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/domain/generator"
	"github.com/skip2/go-qrcode"
)

// palette indexes: 0 is the background so a fresh image starts white
var palette = color.Palette{color.White, color.Black}

// Renderer handles QR code generation
type Renderer struct {
	level qrcode.RecoveryLevel
}

// NewRenderer creates a renderer that encodes at the lowest error-correction
// level, which gives the most capacity per version.
func NewRenderer() *Renderer {
	return &Renderer{
		level: qrcode.Low,
	}
}

// Render encodes text and paints it at boxSize pixels per module, surrounded
// by border modules of quiet zone. The library picks the smallest version
// that fits; its errors are returned as is.
func (r *Renderer) Render(text string, boxSize, border int) (*generator.QRImage, error) {
	q, err := qrcode.New(text, r.level)
	if err != nil {
		return nil, err
	}

	// The quiet zone is drawn here so the border width is configurable.
	q.DisableBorder = true
	modules := q.Bitmap()

	side, ok := generator.ImageSide(len(modules), boxSize, border)
	if !ok {
		return nil, errors.New(constant.ErrImageTooLarge)
	}

	return &generator.QRImage{
		Raster:  paint(modules, side, boxSize, border),
		Version: q.VersionNumber,
		Modules: len(modules),
	}, nil
}

func paint(modules [][]bool, side, boxSize, border int) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, side, side), palette)

	for y, row := range modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := (x + border) * boxSize
			y0 := (y + border) * boxSize
			for py := y0; py < y0+boxSize; py++ {
				for px := x0; px < x0+boxSize; px++ {
					img.SetColorIndex(px, py, 1)
				}
			}
		}
	}

	return img
}
