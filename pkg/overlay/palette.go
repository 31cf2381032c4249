// Package overlay renders the colored, numbered region visualization that is
// both the UI artifact and the labeling model's input image.
package overlay

import (
	"math/rand"

	"medclarity/pkg/masks"
)

// paletteSeed keeps runs visually reproducible for the same mask count.
const paletteSeed = 42

// RGB is a color triple as exposed in the output JSON.
type RGB [3]uint8

// Palette returns n region colors drawn from a fixed-seed generator. Channel
// values stay in [50,255] so no region ends up near-black against the scan.
func Palette(n int) []RGB {
	rng := rand.New(rand.NewSource(paletteSeed))

	colors := make([]RGB, n)
	for i := range colors {
		colors[i] = RGB{
			uint8(rng.Intn(205) + 50),
			uint8(rng.Intn(205) + 50),
			uint8(rng.Intn(205) + 50),
		}
	}
	return colors
}

// Centroid returns the mean pixel position of the mask, falling back to the
// bounding-box center when the mask has no set pixels.
func Centroid(m masks.Mask) (int, int) {
	var sumX, sumY, count int
	for y, row := range m.Segmentation {
		for x, set := range row {
			if set {
				sumX += x
				sumY += y
				count++
			}
		}
	}

	if count == 0 {
		return m.BBox.X + m.BBox.Width/2, m.BBox.Y + m.BBox.Height/2
	}
	return sumX / count, sumY / count
}
