package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"sync"

	"fyne.io/fyne/v2"
)

const iconSize = 512

var (
	iconOnce     sync.Once
	iconResource fyne.Resource
)

// AppIcon returns the application icon, rendered on first use.
func AppIcon() fyne.Resource {
	iconOnce.Do(func() {
		var buf bytes.Buffer
		if err := png.Encode(&buf, RenderIcon()); err != nil {
			return
		}
		iconResource = fyne.NewStaticResource("asconsole.png", buf.Bytes())
	})
	return iconResource
}

// WriteIcon saves the application icon as a PNG file.
func WriteIcon(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, RenderIcon())
}

// RenderIcon draws three stacked server units over a slate gradient, each
// with a status light.
func RenderIcon() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))

	top := color.RGBA{R: 30, G: 41, B: 59, A: 255}
	bottom := color.RGBA{R: 15, G: 118, B: 110, A: 255}
	for y := 0; y < iconSize; y++ {
		ratio := float64(y) / iconSize
		c := color.RGBA{
			R: blend(top.R, bottom.R, ratio),
			G: blend(top.G, bottom.G, ratio),
			B: blend(top.B, bottom.B, ratio),
			A: 255,
		}
		draw.Draw(img, image.Rect(0, y, iconSize, y+1), &image.Uniform{C: c}, image.Point{}, draw.Src)
	}

	unit := color.RGBA{R: 241, G: 245, B: 249, A: 255}
	lights := []color.RGBA{
		{R: 34, G: 197, B: 94, A: 255},
		{R: 34, G: 197, B: 94, A: 255},
		{R: 249, G: 115, B: 22, A: 255},
	}
	const (
		left, right = 96, 416
		height      = 80
		gap         = 32
		firstTop    = 100
	)
	for i, light := range lights {
		y := firstTop + i*(height+gap)
		draw.Draw(img, image.Rect(left, y, right, y+height), &image.Uniform{C: unit}, image.Point{}, draw.Src)
		fillCircle(img, right-48, y+height/2, 14, light)
		for slot := 0; slot < 3; slot++ {
			x := left + 32 + slot*56
			draw.Draw(img, image.Rect(x, y+30, x+40, y+height-30), &image.Uniform{C: top}, image.Point{}, draw.Src)
		}
	}
	return img
}

func blend(from, to uint8, ratio float64) uint8 {
	return uint8(float64(from)*(1-ratio) + float64(to)*ratio)
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				img.SetRGBA(cx+x, cy+y, c)
			}
		}
	}
}
