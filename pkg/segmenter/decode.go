package segmenter

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/png"

	"medclarity/pkg/masks"
)

// decodeMasks turns the wire payload into mask values. Each segmentation is
// a base64 PNG bitmask; any non-zero pixel counts as region membership.
func decodeMasks(payloads []maskPayload) ([]masks.Mask, error) {
	decoded := make([]masks.Mask, 0, len(payloads))

	for i, p := range payloads {
		seg, err := decodeBitmask(p.Segmentation)
		if err != nil {
			return nil, fmt.Errorf("mask %d: %w", i, err)
		}

		decoded = append(decoded, masks.Mask{
			Segmentation: seg,
			BBox: masks.BBox{
				X:      p.BBox[0],
				Y:      p.BBox[1],
				Width:  p.BBox[2],
				Height: p.BBox[3],
			},
			Area:           p.Area,
			PredictedIoU:   p.PredictedIoU,
			StabilityScore: p.StabilityScore,
		})
	}

	return decoded, nil
}

func decodeBitmask(encoded string) ([][]bool, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 segmentation: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid segmentation bitmap: %w", err)
	}

	bounds := img.Bounds()
	grid := make([][]bool, bounds.Dy())
	for y := range grid {
		row := make([]bool, bounds.Dx())
		for x := range row {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			row[x] = r|g|b != 0
		}
		grid[y] = row
	}

	return grid, nil
}
