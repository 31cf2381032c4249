package analysisService

import (
	"testing"

	"github.com/stretchr/testify/require"

	"medclarity/pkg/masks"
	"medclarity/pkg/nlp"
	"medclarity/pkg/overlay"
)

func TestBuildRegions(t *testing.T) {
	ordered := []masks.Mask{
		{BBox: masks.BBox{X: 10, Y: 20, Width: 30, Height: 40}, Area: 1200, PredictedIoU: 0.91, StabilityScore: 0.88},
		{BBox: masks.BBox{X: 50, Y: 60, Width: 10, Height: 10}, Area: 100, PredictedIoU: 0.75, StabilityScore: 0.8},
	}
	colors := []overlay.RGB{{200, 100, 50}, {60, 70, 80}}
	labels := map[int]string{1: "distal tibia"}
	matches := map[int]nlp.MatchResult{
		1: {Label: "distal tibia", Mentioned: true},
	}

	regions := buildRegions(ordered, colors, labels, matches)

	require.Len(t, regions, 2)

	first := regions[0]
	require.Equal(t, "region_1", first.ID)
	require.Equal(t, 1, first.Number)
	require.Equal(t, "distal tibia", first.Label)
	require.True(t, first.Mentioned)
	require.Equal(t, [4]int{10, 20, 40, 60}, first.BBox)
	require.Equal(t, [2]int{25, 40}, first.Center)
	require.Equal(t, [3]int{200, 100, 50}, first.Color)
	require.Equal(t, 0.91, first.Confidence)
	require.Equal(t, 0.88, first.Stability)

	second := regions[1]
	require.Equal(t, "region_2", second.ID)
	require.Equal(t, "unlabeled_region_2", second.Label)
	require.False(t, second.Mentioned)
}

func TestBuildRegionsColorFallback(t *testing.T) {
	ordered := []masks.Mask{
		{BBox: masks.BBox{Width: 4, Height: 4}, Area: 16},
	}

	regions := buildRegions(ordered, nil, nil, nil)

	require.Len(t, regions, 1)
	require.Equal(t, [3]int{128, 128, 128}, regions[0].Color)
}

func TestBuildResult(t *testing.T) {
	ordered := []masks.Mask{
		{BBox: masks.BBox{X: 0, Y: 0, Width: 10, Height: 10}, Area: 100},
		{BBox: masks.BBox{X: 20, Y: 20, Width: 5, Height: 5}, Area: 25},
		{BBox: masks.BBox{X: 40, Y: 40, Width: 5, Height: 5}, Area: 25},
	}
	colors := overlay.Palette(3)
	labels := map[int]string{1: "talus", 2: "calcaneus", 3: "cuboid"}
	matches := map[int]nlp.MatchResult{
		1: {Label: "talus", Mentioned: true},
		2: {Label: "calcaneus", Mentioned: false},
		3: {Label: "cuboid", Mentioned: true},
	}

	regions := buildRegions(ordered, colors, labels, matches)
	result := buildResult("scan.png", 640, 480, regions, "The talus and cuboid are intact.")

	require.Equal(t, "scan.png", result.ImageInfo.Filename)
	require.Equal(t, 3, result.ImageInfo.NumRegions)
	require.Equal(t, 640, result.ImageInfo.Width)
	require.Equal(t, 480, result.ImageInfo.Height)
	require.Equal(t, "The talus and cuboid are intact.", result.Diagnosis.FullReport)
	require.Equal(t, []string{"talus", "cuboid"}, result.Diagnosis.MentionedRegions)
	require.Equal(t, 2, result.Diagnosis.NumMentioned)
}

func TestRegionViews(t *testing.T) {
	ordered := []masks.Mask{
		{BBox: masks.BBox{X: 1, Y: 2, Width: 3, Height: 4}, Area: 12},
	}

	regions := buildRegions(ordered, overlay.Palette(1), map[int]string{1: "navicular"}, nil)
	views := regionViews(regions)

	require.Len(t, views, 1)
	require.Equal(t, "region_1", views[0].ID)
	require.Equal(t, "navicular", views[0].Label)
	require.Equal(t, regions[0].BBox, views[0].BBox)
	require.Equal(t, regions[0].Color, views[0].Color)
}
