package masks

// DefaultIoUThreshold is the overlap cutoff used by the pipeline when no
// explicit threshold is configured.
const DefaultIoUThreshold = 0.3

// Deduplicate removes overlapping candidate masks. Candidates are scanned
// largest-first and a candidate is kept only if its bounding-box IoU against
// every already-kept box does not exceed the threshold. A pair sitting
// exactly at the threshold is not considered overlapping.
//
// This is a deterministic greedy pass, not a global optimum: larger masks
// win because the segmentation model is more confident about them.
func Deduplicate(ms []Mask, iouThreshold float64) []Mask {
	sorted := SortByArea(ms)

	kept := make([]Mask, 0, len(sorted))
	for _, candidate := range sorted {
		overlaps := false
		for _, k := range kept {
			if candidate.BBox.IoU(k.BBox) > iouThreshold {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, candidate)
		}
	}

	return kept
}
