// Package render draws gear statistics as a small bitmap for a
// low-resolution e-ink accessory display.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/velodash/gearframe/pkg/api"
)

// Display dimensions of the target e-ink panel
const (
	Width  = 296
	Height = 152
)

// The text canvas is drawn at half size with a bitmap face and scaled
// 2x nearest-neighbor: crisp pixels survive the panel's 1-bit dithering
// better than anti-aliased vector text.
const scale = 2

// ErrBrandNotConfigured indicates that no layout exists for the gear's
// brand
var ErrBrandNotConfigured = errors.New("brand not configured")

// brandSpec carries per-brand layout tweaks. The left padding leaves
// room for the brand mark on panels that have one printed on the
// bezel sticker.
type brandSpec struct {
	paddingLeft int
}

var brandConfig = map[string]brandSpec{
	"Canyon": {paddingLeft: 28},
	"Adidas": {paddingLeft: 4},
	"Nike":   {paddingLeft: 4},
}

// GearImage renders stats as a Width x Height bitmap.
// Returns ErrBrandNotConfigured for brands without a layout.
func GearImage(stats *api.GearStats) (image.Image, error) {
	spec, ok := brandConfig[stats.BrandName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBrandNotConfigured, stats.BrandName)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, Width/scale, Height/scale))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	lineHeight := face.Height + 3
	padLeft := spec.paddingLeft / scale

	// rows as in the panel layout: name, lifetime distance, blank,
	// featured distance
	name := strings.TrimSpace(strings.ReplaceAll(stats.Name, stats.BrandName, ""))
	lines := []struct {
		text string
		bold bool
		row  int
	}{
		{text: name, bold: true, row: 0},
		{text: formatKm(stats.DistanceKm) + " km", row: 1},
		{text: featuredDistance(stats), row: 3},
	}

	for _, line := range lines {
		y := face.Ascent + line.row*lineHeight
		drawText(canvas, face, padLeft, y, line.text, line.bold)
	}

	return scaleUp(canvas), nil
}

// EncodePNG writes img PNG-encoded
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// featuredDistance picks the third line: this week's distance when the
// gear was used this week, the 30-day distance otherwise, "Off duty"
// when both are zero
func featuredDistance(stats *api.GearStats) string {
	if stats.ThisWeek.DistanceKm > 0 {
		return formatKm(stats.ThisWeek.DistanceKm) + " km (wk)"
	}
	if stats.Last30Days.DistanceKm > 0 {
		return formatKm(stats.Last30Days.DistanceKm) + " km (30d)"
	}
	return "Off duty"
}

// formatKm formats a distance in km: one decimal below 100 km, integer
// with thousands separator above
func formatKm(km float64) string {
	if km < 100 {
		return fmt.Sprintf("%.1f", km)
	}
	return addThousands(fmt.Sprintf("%.0f", km))
}

// addThousands inserts comma separators into a plain integer string
func addThousands(s string) string {
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// drawText draws one line; bold is faked by a 1px double strike, which
// is enough at panel resolution
func drawText(dst draw.Image, face font.Face, x, y int, text string, bold bool) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)

	if bold {
		d.Dot = fixed.P(x+1, y)
		d.DrawString(text)
	}
}

// scaleUp enlarges the canvas by the scale factor, nearest neighbor
func scaleUp(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale))

	for y := 0; y < bounds.Dy()*scale; y++ {
		for x := 0; x < bounds.Dx()*scale; x++ {
			dst.Set(x, y, src.At(bounds.Min.X+x/scale, bounds.Min.Y+y/scale))
		}
	}

	return dst
}
