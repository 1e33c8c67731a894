// Package plot draws a per-column conservation profile as a PNG.
// Entropy is drawn as bars, the gap fraction as a line over the top.
// It is a quick look, not a publication figure. If you give it a ttf
// font it will label the plot, otherwise you just get the shapes.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/golang/freetype"

	"github.com/andrew-torda/msaqc/pkg/seq"
)

// Options - zero values give a sensible plot.
type Options struct {
	BarWidth int    // pixels per column, default 3
	Height   int    // plot height in pixels, default 160
	Title    string // drawn top left, needs FontPath
	FontPath string // ttf file for labels, empty means no text
}

const margin = 20

var (
	bgCol   = color.RGBA{255, 255, 255, 255}
	barCol  = color.RGBA{46, 86, 166, 255}  // entropy bars
	gapCol  = color.RGBA{214, 106, 28, 255} // gap fraction line
	textCol = color.RGBA{40, 40, 40, 255}
)

// WritePNG renders the profile of an alignment's columns to w.
func WritePNG(w io.Writer, mets []seq.ColMetrics, opts *Options) error {
	if len(mets) == 0 {
		return fmt.Errorf("plot: no columns")
	}
	if opts == nil {
		opts = &Options{}
	}
	barw := opts.BarWidth
	if barw <= 0 {
		barw = 3
	}
	height := opts.Height
	if height <= 0 {
		height = 160
	}

	width := len(mets)*barw + 2*margin
	img := image.NewRGBA(image.Rect(0, 0, width, height+2*margin))
	fill(img, bgCol)

	// Scale entropy to the biggest value present, or one bit if the
	// alignment is very conserved, so flat profiles do not explode.
	maxEnt := 1.0
	for _, m := range mets {
		if m.Entropy > maxEnt {
			maxEnt = m.Entropy
		}
	}

	base := margin + height // y of the x axis
	for i, m := range mets {
		x0 := margin + i*barw
		bh := int(math.Round(m.Entropy / maxEnt * float64(height)))
		for x := x0; x < x0+barw-1 && x < width-margin; x++ {
			for y := base - bh; y < base; y++ {
				img.Set(x, y, barCol)
			}
			gy := base - int(math.Round(m.GapFrac*float64(height)))
			img.Set(x, gy, gapCol)
			img.Set(x, gy-1, gapCol)
		}
	}
	axes(img, width, base)

	if opts.FontPath != "" {
		if err := label(img, opts, maxEnt, base, width); err != nil {
			return err
		}
	}
	return png.Encode(w, img)
}

// WriteFile is WritePNG to a named file.
func WriteFile(fname string, mets []seq.ColMetrics, opts *Options) error {
	fp, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("plot file %s: %w", fname, err)
	}
	defer fp.Close()
	return WritePNG(fp, mets, opts)
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func axes(img *image.RGBA, width, base int) {
	for x := margin; x < width-margin; x++ {
		img.Set(x, base, textCol)
	}
	for y := margin; y <= base; y++ {
		img.Set(margin-1, y, textCol)
	}
}

// label draws the title and axis captions with freetype.
func label(img *image.RGBA, opts *Options, maxEnt float64, base, width int) error {
	fdata, err := os.ReadFile(opts.FontPath)
	if err != nil {
		return fmt.Errorf("plot font: %w", err)
	}
	fnt, err := freetype.ParseFont(fdata)
	if err != nil {
		return fmt.Errorf("plot font %s: %w", opts.FontPath, err)
	}
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(fnt)
	c.SetFontSize(11)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.NewUniform(textCol))

	if opts.Title != "" {
		if _, err := c.DrawString(opts.Title, freetype.Pt(margin, 14)); err != nil {
			return err
		}
	}
	top := fmt.Sprintf("%.2f bits", maxEnt)
	if _, err := c.DrawString(top, freetype.Pt(2, margin+10)); err != nil {
		return err
	}
	_, err = c.DrawString("column", freetype.Pt(width/2-20, base+16))
	return err
}
