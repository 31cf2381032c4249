package masks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBBoxIoU(t *testing.T) {
	a := BBox{X: 0, Y: 0, Width: 10, Height: 10}
	b := BBox{X: 5, Y: 5, Width: 10, Height: 10}

	// intersection 5x5=25, union 100+100-25=175
	require.InDelta(t, 25.0/175.0, a.IoU(b), 1e-9)
	require.InDelta(t, a.IoU(b), b.IoU(a), 1e-9)
}

func TestBBoxIoUDisjoint(t *testing.T) {
	a := BBox{X: 0, Y: 0, Width: 10, Height: 10}
	b := BBox{X: 20, Y: 20, Width: 10, Height: 10}

	require.Zero(t, a.IoU(b))
}

func TestBBoxIoUIdentical(t *testing.T) {
	a := BBox{X: 3, Y: 4, Width: 7, Height: 9}

	require.InDelta(t, 1.0, a.IoU(a), 1e-9)
}

func TestBBoxIoUZeroUnion(t *testing.T) {
	a := BBox{}
	b := BBox{}

	require.Zero(t, a.IoU(b))
}

func TestDeduplicateKeepsLargestOfOverlappingPair(t *testing.T) {
	big := Mask{BBox: BBox{X: 0, Y: 0, Width: 10, Height: 10}, Area: 100}
	small := Mask{BBox: BBox{X: 1, Y: 1, Width: 9, Height: 9}, Area: 81}

	kept := Deduplicate([]Mask{small, big}, DefaultIoUThreshold)

	require.Len(t, kept, 1)
	require.Equal(t, 100, kept[0].Area)
}

func TestDeduplicateKeepsDisjointMasks(t *testing.T) {
	input := []Mask{
		{BBox: BBox{X: 0, Y: 0, Width: 10, Height: 10}, Area: 100},
		{BBox: BBox{X: 50, Y: 50, Width: 5, Height: 5}, Area: 25},
		{BBox: BBox{X: 100, Y: 0, Width: 8, Height: 8}, Area: 64},
	}

	kept := Deduplicate(input, DefaultIoUThreshold)

	require.Len(t, kept, 3)
	// ordered by area descending
	require.Equal(t, 100, kept[0].Area)
	require.Equal(t, 64, kept[1].Area)
	require.Equal(t, 25, kept[2].Area)
}

func TestDeduplicateExactThresholdIsKept(t *testing.T) {
	// IoU of these two boxes is exactly 0.25: intersection 5x10=50,
	// union 100+150-50=200.
	a := Mask{BBox: BBox{X: 0, Y: 0, Width: 15, Height: 10}, Area: 150}
	b := Mask{BBox: BBox{X: 10, Y: 0, Width: 10, Height: 10}, Area: 100}

	kept := Deduplicate([]Mask{a, b}, 0.25)
	require.Len(t, kept, 2)

	kept = Deduplicate([]Mask{a, b}, 0.24)
	require.Len(t, kept, 1)
	require.Equal(t, 150, kept[0].Area)
}

func TestDeduplicatePairwiseIoUWithinThreshold(t *testing.T) {
	input := []Mask{
		{BBox: BBox{X: 0, Y: 0, Width: 20, Height: 20}, Area: 400},
		{BBox: BBox{X: 2, Y: 2, Width: 18, Height: 18}, Area: 324},
		{BBox: BBox{X: 15, Y: 15, Width: 20, Height: 20}, Area: 400},
		{BBox: BBox{X: 40, Y: 40, Width: 10, Height: 10}, Area: 100},
		{BBox: BBox{X: 41, Y: 41, Width: 10, Height: 10}, Area: 100},
	}

	kept := Deduplicate(input, DefaultIoUThreshold)

	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			require.LessOrEqual(t, kept[i].BBox.IoU(kept[j].BBox), DefaultIoUThreshold)
		}
	}
}

func TestDeduplicateEmptyInput(t *testing.T) {
	kept := Deduplicate(nil, DefaultIoUThreshold)

	require.NotNil(t, kept)
	require.Empty(t, kept)
}

func TestSortByAreaStableAndNonMutating(t *testing.T) {
	input := []Mask{
		{BBox: BBox{X: 1}, Area: 50},
		{BBox: BBox{X: 2}, Area: 100},
		{BBox: BBox{X: 3}, Area: 50},
	}

	sorted := SortByArea(input)

	require.Equal(t, 100, sorted[0].Area)
	// equal areas keep input order
	require.Equal(t, 1, sorted[1].BBox.X)
	require.Equal(t, 3, sorted[2].BBox.X)
	// input untouched
	require.Equal(t, 50, input[0].Area)
}
