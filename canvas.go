package fingerprint

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// canvasFingerprint draws a fixed scene (filled and stroked rectangles plus a
// translucent overlay composited with draw.Over), encodes it as a PNG data
// URL and returns its hex digest under d.
func canvasFingerprint(d Digester) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 50))

	orange := color.RGBA{R: 0xff, G: 0x66, B: 0x00, A: 0xff}
	teal := color.RGBA{R: 0x00, G: 0x66, B: 0x99, A: 0xff}

	draw.Draw(img, image.Rect(0, 0, 100, 50), image.NewUniform(orange), image.Point{}, draw.Src)
	strokeRect(img, image.Rect(5, 5, 95, 45), teal)

	overlay := image.NewUniform(color.NRGBA{R: 0x66, G: 0xcc, B: 0x00, A: 0xb3})
	draw.Draw(img, image.Rect(40, 10, 160, 40), overlay, image.Point{}, draw.Over)

	// Diagonal hatching exercises per-pixel blending at sub-opaque alpha.
	hatch := color.NRGBA{R: 0x06, G: 0x09, B: 0x66, A: 0x80}
	for x := 0; x < 200; x++ {
		y := (x * 50 / 200) % 50
		draw.Draw(img, image.Rect(x, y, x+1, y+1), image.NewUniform(hatch), image.Point{}, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	return hexDigest(d, []byte(dataURL))
}

// strokeRect draws a one-pixel outline of r.
func strokeRect(img draw.Image, r image.Rectangle, c color.Color) {
	src := image.NewUniform(c)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), src, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
}
