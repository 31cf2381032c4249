package analysisService

import (
	"fmt"

	"medclarity/internal/api/analysis"
	"medclarity/internal/entity"
	"medclarity/pkg/masks"
	"medclarity/pkg/nlp"
	"medclarity/pkg/overlay"
)

// buildRegions assembles the serialized region records in canonical order.
// Region numbers are the 1-based position in the ordered mask slice; regions
// the model did not label get a generated placeholder and are never marked
// mentioned.
func buildRegions(ordered []masks.Mask, colors []overlay.RGB, labels map[int]string, matches map[int]nlp.MatchResult) []entity.Region {
	regions := make([]entity.Region, 0, len(ordered))

	for i, m := range ordered {
		number := i + 1

		label, ok := labels[number]
		if !ok {
			label = nlp.PlaceholderLabel(number)
		}

		mentioned := false
		if match, ok := matches[number]; ok {
			mentioned = match.Mentioned
		}

		color := [3]int{128, 128, 128}
		if i < len(colors) {
			color = [3]int{int(colors[i][0]), int(colors[i][1]), int(colors[i][2])}
		}

		regions = append(regions, entity.Region{
			ID:         fmt.Sprintf("region_%d", number),
			Number:     number,
			Label:      label,
			Mentioned:  mentioned,
			BBox:       [4]int{m.BBox.X, m.BBox.Y, m.BBox.X + m.BBox.Width, m.BBox.Y + m.BBox.Height},
			Center:     [2]int{m.BBox.X + m.BBox.Width/2, m.BBox.Y + m.BBox.Height/2},
			Area:       m.Area,
			Color:      color,
			Confidence: m.PredictedIoU,
			Stability:  m.StabilityScore,
		})
	}

	return regions
}

func buildResult(filename string, width, height int, regions []entity.Region, diagnosis string) entity.AnalysisResult {
	mentioned := make([]string, 0)
	for _, r := range regions {
		if r.Mentioned {
			mentioned = append(mentioned, r.Label)
		}
	}

	return entity.AnalysisResult{
		ImageInfo: entity.ImageInfo{
			Filename:   filename,
			NumRegions: len(regions),
			Width:      width,
			Height:     height,
		},
		Regions: regions,
		Diagnosis: entity.DiagnosisSummary{
			FullReport:       diagnosis,
			MentionedRegions: mentioned,
			NumMentioned:     len(mentioned),
		},
	}
}

func regionViews(regions []entity.Region) []analysis.RegionView {
	views := make([]analysis.RegionView, 0, len(regions))
	for _, r := range regions {
		views = append(views, analysis.RegionView{
			ID:        r.ID,
			Number:    r.Number,
			Label:     r.Label,
			Mentioned: r.Mentioned,
			Color:     r.Color,
			BBox:      r.BBox,
			Center:    r.Center,
		})
	}
	return views
}
