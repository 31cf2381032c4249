// Package masks holds the segmentation mask model shared by the analysis
// pipeline: bounding geometry, confidence scores and the canonical
// area-descending ordering that region numbering is derived from.
package masks

import "sort"

type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (b BBox) Area() int {
	return b.Width * b.Height
}

// IoU returns the intersection-over-union of two axis-aligned boxes.
// A zero union area yields 0.
func (b BBox) IoU(other BBox) float64 {
	xi1 := max(b.X, other.X)
	yi1 := max(b.Y, other.Y)
	xi2 := min(b.X+b.Width, other.X+other.Width)
	yi2 := min(b.Y+b.Height, other.Y+other.Height)

	interArea := max(0, xi2-xi1) * max(0, yi2-yi1)
	unionArea := b.Area() + other.Area() - interArea

	if unionArea <= 0 {
		return 0
	}
	return float64(interArea) / float64(unionArea)
}

// Mask is a single candidate region produced by the segmentation model.
type Mask struct {
	Segmentation   [][]bool
	BBox           BBox
	Area           int
	PredictedIoU   float64
	StabilityScore float64
}

// SortByArea returns a copy of the masks ordered by pixel area descending.
// The sort is stable, so equal-area masks keep their input order. This
// ordering is the canonical region numbering for the whole pipeline.
func SortByArea(ms []Mask) []Mask {
	sorted := make([]Mask, len(ms))
	copy(sorted, ms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area > sorted[j].Area
	})
	return sorted
}
