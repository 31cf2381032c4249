package nlp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRegionLabels(t *testing.T) {
	response := "1: distal tibia\n2: [specific anatomical structure]\n3. talus"

	labels := ParseRegionLabels(response)

	require.Equal(t, map[int]string{
		1: "distal tibia",
		3: "talus",
	}, labels)
}

func TestParseRegionLabelsLowercasesAndTrims(t *testing.T) {
	labels := ParseRegionLabels("  1:   Distal Tibia  \n2: CALCANEUS")

	require.Equal(t, "distal tibia", labels[1])
	require.Equal(t, "calcaneus", labels[2])
}

func TestParseRegionLabelsSkipsMalformedLines(t *testing.T) {
	response := "Here are the labels:\n1: tibia\nnot a label line\nx: fibula\n4:\n\n5. navicular"

	labels := ParseRegionLabels(response)

	require.Equal(t, map[int]string{
		1: "tibia",
		5: "navicular",
	}, labels)
}

func TestParseRegionLabelsDotFormRequiresLeadingDigit(t *testing.T) {
	// A "." separator only counts when the line starts with a digit,
	// otherwise prose sentences would parse as labels.
	labels := ParseRegionLabels("The image. shows a foot")

	require.Empty(t, labels)
}

func TestParseRegionLabelsDiscardsAllPlaceholders(t *testing.T) {
	response := "1: [specific anatomical structure]\n2: [anatomical structure name]"

	labels := ParseRegionLabels(response)

	require.Empty(t, labels)
}

func TestParseRegionLabelsEmptyResponse(t *testing.T) {
	require.Empty(t, ParseRegionLabels(""))
	require.Empty(t, ParseRegionLabels("   \n  \n"))
}

func TestPlaceholderLabel(t *testing.T) {
	require.Equal(t, "unlabeled_region_7", PlaceholderLabel(7))
}
