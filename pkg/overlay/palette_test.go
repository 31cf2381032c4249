package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"

	"medclarity/pkg/masks"
)

func TestPaletteDeterministic(t *testing.T) {
	first := Palette(12)
	second := Palette(12)

	require.Equal(t, first, second)
	require.Len(t, first, 12)
}

func TestPaletteChannelRange(t *testing.T) {
	for _, c := range Palette(50) {
		for _, ch := range c {
			require.GreaterOrEqual(t, ch, uint8(50))
		}
	}
}

func TestPalettePrefixStable(t *testing.T) {
	// A run with more regions keeps the same colors for the first ones.
	short := Palette(3)
	long := Palette(10)

	require.Equal(t, short, long[:3])
}

func TestCentroidMeanPixel(t *testing.T) {
	seg := make([][]bool, 4)
	for y := range seg {
		seg[y] = make([]bool, 4)
	}
	seg[1][1] = true
	seg[1][3] = true
	seg[3][1] = true
	seg[3][3] = true

	m := masks.Mask{Segmentation: seg, BBox: masks.BBox{X: 0, Y: 0, Width: 4, Height: 4}}

	x, y := Centroid(m)
	require.Equal(t, 2, x)
	require.Equal(t, 2, y)
}

func TestCentroidFallsBackToBBoxCenter(t *testing.T) {
	m := masks.Mask{BBox: masks.BBox{X: 10, Y: 20, Width: 6, Height: 8}}

	x, y := Centroid(m)
	require.Equal(t, 13, x)
	require.Equal(t, 24, y)
}
