// Test portrait generator for trying the analyze command without a segmenter.
//
//	go run ./testdata/generate_portrait.go
//	seasonal analyze --masks testdata/masks testdata/portrait.png
package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	// One horizontal band per region.
	width := 300
	height := 400

	bands := []struct {
		region string
		colour color.RGBA
	}{
		{"hair", color.RGBA{R: 92, G: 51, B: 23, A: 255}},
		{"skin", color.RGBA{R: 224, G: 172, B: 105, A: 255}},
		{"eyes", color.RGBA{R: 99, G: 78, B: 52, A: 255}},
		{"lips", color.RGBA{R: 170, G: 74, B: 68, A: 255}},
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bandHeight := height / len(bands)

	if err := os.MkdirAll("testdata/masks", 0o750); err != nil {
		panic(err)
	}

	for i, band := range bands {
		mask := image.NewGray(img.Bounds())
		for y := i * bandHeight; y < (i+1)*bandHeight; y++ {
			for x := 0; x < width; x++ {
				img.Set(x, y, band.colour)
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
		save(filepath.Join("testdata/masks", band.region+".png"), mask)
	}

	save("testdata/portrait.png", img)
	println("Test portrait created: testdata/portrait.png (masks in testdata/masks)")
}

func save(path string, img image.Image) {
	file, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		panic(err)
	}
}
