package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegionJSONFieldNames(t *testing.T) {
	r := Region{
		ID:         "region_1",
		Number:     1,
		Label:      "distal tibia",
		Mentioned:  true,
		BBox:       [4]int{10, 20, 40, 60},
		Center:     [2]int{25, 40},
		Area:       1200,
		Color:      [3]int{200, 100, 50},
		Confidence: 0.91,
		Stability:  0.88,
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	require.Equal(t, "region_1", raw["id"])
	require.Equal(t, "distal tibia", raw["label"])
	require.Equal(t, true, raw["mentioned_in_diagnosis"])
	require.Contains(t, raw, "bbox")
	require.Contains(t, raw, "center")
	require.Contains(t, raw, "confidence")
	require.Contains(t, raw, "stability")
}
