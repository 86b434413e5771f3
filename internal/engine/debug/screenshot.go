// Package debug provides debug visualization utilities.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	xdraw "golang.org/x/image/draw"
)

// gridShade marks tile borders in atlas captures.
const gridShade = 0

// AtlasCapture writes shadow atlas depth contents to PNG files.
type AtlasCapture struct {
	outputDir string
	prefix    string

	// MaxSide downscales larger atlases to this many pixels per side.
	// Zero keeps the full resolution.
	MaxSide int
}

// NewAtlasCapture creates a capture handler writing <prefix>_<time>.png
// files to outputDir.
func NewAtlasCapture(outputDir, prefix string) *AtlasCapture {
	return &AtlasCapture{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// SetOutputDir sets the output directory for captures.
func (ac *AtlasCapture) SetOutputDir(dir string) {
	ac.outputDir = dir
}

// DepthImage converts size x size depth texels in [0, 1] to a grayscale
// image, near dark and far bright. The image is flipped vertically since
// OpenGL has origin at bottom-left. With split > 1 the tile borders are
// drawn in black.
func DepthImage(depth []float32, size, split int) (*image.Gray, error) {
	img, err := depthGray(depth, size)
	if err != nil {
		return nil, err
	}
	drawGrid(img, split)
	return img, nil
}

func depthGray(depth []float32, size int) (*image.Gray, error) {
	if size < 1 || len(depth) != size*size {
		return nil, fmt.Errorf("depth data size mismatch: expected %d, got %d", size*size, len(depth))
	}

	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		src := (size - 1 - y) * size // Flip Y
		for x := 0; x < size; x++ {
			d := min(max(depth[src+x], 0), 1)
			img.Pix[y*img.Stride+x] = uint8(d*255 + 0.5)
		}
	}
	return img, nil
}

func drawGrid(img *image.Gray, split int) {
	if split <= 1 {
		return
	}
	size := img.Bounds().Dx()
	tile := size / split
	for i := 1; i < split; i++ {
		line := i * tile
		for j := 0; j < size; j++ {
			img.SetGray(line, j, color.Gray{Y: gridShade})
			img.SetGray(j, size-1-line, color.Gray{Y: gridShade})
		}
	}
}

// Image converts depth like DepthImage, downscaled to MaxSide when set.
// The grid is drawn after scaling so borders stay one pixel wide.
func (ac *AtlasCapture) Image(depth []float32, size, split int) (*image.Gray, error) {
	img, err := depthGray(depth, size)
	if err != nil {
		return nil, err
	}
	if ac.MaxSide > 0 && size > ac.MaxSide {
		scaled := image.NewGray(image.Rect(0, 0, ac.MaxSide, ac.MaxSide))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = scaled
	}
	drawGrid(img, split)
	return img, nil
}

// Capture converts depth with Image and saves it. It returns the file
// written.
func (ac *AtlasCapture) Capture(depth []float32, size, split int) (string, error) {
	img, err := ac.Image(depth, size, split)
	if err != nil {
		return "", err
	}

	// Create output directory if needed
	if ac.outputDir != "" {
		if err := os.MkdirAll(ac.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := ac.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	return filename, nil
}

// GenerateFilename generates a capture filename without saving.
func (ac *AtlasCapture) GenerateFilename() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", ac.prefix, timestamp)
	if ac.outputDir != "" {
		filename = filepath.Join(ac.outputDir, filename)
	}
	return filename
}
