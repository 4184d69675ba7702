package toolmeta

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/eringen/toolmeta/metadata"
)

var (
	ogBackground = color.RGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}
	ogAccent     = color.RGBA{R: 0x38, G: 0xbd, B: 0xf8, A: 0xff}
	ogText       = color.RGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	ogMuted      = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

// ogScale is the factor between the drawing canvas and the final card.
// basicfont glyphs are 7x13, so text is drawn small and scaled up.
const ogScale = 2

// renderOGImage returns the default Open Graph card as PNG. When source is
// set, that image is scaled to cover the card; otherwise a card with the
// site name and host is drawn.
func renderOGImage(siteName, host, source string) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, metadata.ImageWidth, metadata.ImageHeight))

	if source != "" {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("toolmeta: open og image: %w", err)
		}
		defer f.Close()
		src, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("toolmeta: decode og image: %w", err)
		}
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, coverRect(src.Bounds(), dst.Bounds()), draw.Src, nil)
	} else {
		canvas := image.NewRGBA(image.Rect(0, 0, metadata.ImageWidth/ogScale, metadata.ImageHeight/ogScale))
		drawCard(canvas, siteName, host)
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("toolmeta: encode og image: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCard(canvas *image.RGBA, title, subtitle string) {
	b := canvas.Bounds()
	draw.Draw(canvas, b, image.NewUniform(ogBackground), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, b.Max.Y-8, b.Max.X, b.Max.Y), image.NewUniform(ogAccent), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	centered := func(s string, y int, c color.Color) {
		d := &font.Drawer{Dst: canvas, Src: image.NewUniform(c), Face: face}
		w := d.MeasureString(s).Ceil()
		d.Dot = fixed.P((b.Dx()-w)/2, y)
		d.DrawString(s)
	}
	centered(strings.ToUpper(title), b.Dy()/2, ogText)
	if subtitle != "" {
		centered(subtitle, b.Dy()/2+24, ogMuted)
	}
}

// coverRect returns the centered part of src with the aspect ratio of dst.
func coverRect(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw*dh > sh*dw {
		w := sh * dw / dh
		x := src.Min.X + (sw-w)/2
		return image.Rect(x, src.Min.Y, x+w, src.Max.Y)
	}
	h := sw * dh / dw
	y := src.Min.Y + (sh-h)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+h)
}
