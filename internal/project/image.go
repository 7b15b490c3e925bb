package project

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/OpenTakeLab/OpenTakeoff/pkg/geometry"
)

// maxRasterEdge caps the long edge of the raster handed to the GPU. The
// document size always stays the original pixel size; only the displayed
// bitmap shrinks.
const maxRasterEdge = 4096

// PageImage is a decoded page raster plus its original document size.
type PageImage struct {
	Image        image.Image
	DocumentSize geometry.Size
}

// LoadImage decodes a page image from disk, downscaling oversized rasters
// to maxRasterEdge on the long side.
func LoadImage(path string) (*PageImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	bounds := img.Bounds()
	size := geometry.Size{
		Width:  float64(bounds.Dx()),
		Height: float64(bounds.Dy()),
	}
	if size.IsZero() {
		return nil, fmt.Errorf("decode image %s: empty image", path)
	}

	return &PageImage{
		Image:        downscale(img),
		DocumentSize: size,
	}, nil
}

// downscale shrinks img so its long edge fits maxRasterEdge, preserving
// aspect ratio. Images already within the cap pass through untouched.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	long := w
	if h > long {
		long = h
	}
	if long <= maxRasterEdge {
		return img
	}

	ratio := float64(maxRasterEdge) / float64(long)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*ratio), int(float64(h)*ratio)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// NewPageFromImage builds a Page for an image file, named after the file.
func NewPageFromImage(path, name string) (*Page, *PageImage, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, nil, err
	}
	return &Page{
		Name:      name,
		ImagePath: path,
		Width:     img.DocumentSize.Width,
		Height:    img.DocumentSize.Height,
	}, img, nil
}
