package draw

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Raster is an in-memory image surface where one logical unit is one pixel.
type Raster struct {
	plotter
	background colorful.Color
}

// NewRaster creates a raster of the given pixel size filled with the default background.
func NewRaster(width, height int) *Raster {
	r := &Raster{background: DefaultBackground}
	r.plotter.scaleX = 1
	r.plotter.scaleY = 1
	r.plotter.resize(width, height, r.background)
	return r
}

// Size returns the surface size (implements Surface).
func (r *Raster) Size() (float64, float64) {
	return float64(r.width), float64(r.height)
}

// Resize changes the pixel size; content is reset only when the size changes.
func (r *Raster) Resize(width, height int) {
	r.plotter.resize(width, height, r.background)
}

// Image converts the raster into an RGBA image.
func (r *Raster) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			cr, cg, cb := r.at(x, y).Clamped().RGB255()
			img.SetRGBA(x, y, color.RGBA{R: cr, G: cg, B: cb, A: 0xff})
		}
	}
	return img
}

// EncodePNG writes the raster as a PNG image.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.empty() {
		return fmt.Errorf("encode png: empty raster %dx%d", r.width, r.height)
	}
	if err := png.Encode(w, r.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Ensure Raster satisfies Surface.
var _ Surface = (*Raster)(nil)
