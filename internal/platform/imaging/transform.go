package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

const (
	AvatarSize        = 512
	RecipeMaxWidth    = 1600
	recipeJPEGQuality = 85
)

// Avatar center-crops the image to a square, scales it to size x size and
// clips it to a circle. The result is PNG so the corners stay transparent.
func Avatar(p Payload, size int) (Payload, error) {
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return Payload{}, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2

	cropped := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(cropped, cropped.Bounds(), img, image.Point{X: x0, Y: y0}, draw.Src)

	scaled := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(scaled, 0, 0)

	var out bytes.Buffer
	if err := dc.EncodePNG(&out); err != nil {
		return Payload{}, fmt.Errorf("encode png: %w", err)
	}
	return Payload{Data: out.Bytes(), Format: "png", ContentType: "image/png", Width: size, Height: size}, nil
}

// RecipePhoto downsizes photos wider than maxWidth and re-encodes them as
// JPEG. Smaller images are returned untouched.
func RecipePhoto(p Payload, maxWidth int) (Payload, error) {
	if maxWidth <= 0 || p.Width <= maxWidth {
		return p, nil
	}
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return Payload{}, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: recipeJPEGQuality}); err != nil {
		return Payload{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Payload{Data: out.Bytes(), Format: "jpeg", ContentType: "image/jpeg", Width: maxWidth, Height: h}, nil
}
