// Package nlp parses the vision-language model's free-text responses: the
// per-region label listing and the mention matching against the generated
// radiology report.
package nlp

import (
	"strconv"
	"strings"
)

// The model is prompted with a bracketed template; echoing it back is a
// non-answer, not a label.
var placeholderAnswers = map[string]struct{}{
	"[specific anatomical structure]": {},
	"[anatomical structure name]":     {},
}

// ParseRegionLabels extracts "N: label" lines from a model response into a
// map of region number to normalized (lowercased, trimmed) label. Lines may
// also use "N. label" form. Malformed lines and placeholder answers are
// skipped silently; the response is best-effort model output, not a protocol.
func ParseRegionLabels(response string) map[int]string {
	labels := make(map[int]string)

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var left, right string
		if idx := strings.Index(line, ":"); idx >= 0 {
			left, right = line[:idx], line[idx+1:]
		} else if idx := strings.Index(line, "."); idx >= 0 && line[0] >= '0' && line[0] <= '9' {
			left, right = line[:idx], line[idx+1:]
		} else {
			continue
		}

		regionNum, err := strconv.Atoi(strings.TrimSpace(left))
		if err != nil {
			continue
		}

		label := strings.TrimSpace(right)
		if label == "" {
			continue
		}
		if _, placeholder := placeholderAnswers[label]; placeholder {
			continue
		}

		labels[regionNum] = strings.ToLower(label)
	}

	return labels
}

// PlaceholderLabel is substituted downstream for regions the model left out
// of its labeling response.
func PlaceholderLabel(regionNum int) string {
	return "unlabeled_region_" + strconv.Itoa(regionNum)
}
