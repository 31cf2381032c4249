package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"medclarity/internal/entity"
	"medclarity/pkg/log"
)

func testResult() entity.AnalysisResult {
	return entity.AnalysisResult{
		ImageInfo: entity.ImageInfo{
			Filename:   "scan.png",
			NumRegions: 2,
			Width:      640,
			Height:     480,
		},
		Regions: []entity.Region{
			{ID: "region_1", Number: 1, Label: "talus", Mentioned: true, BBox: [4]int{0, 0, 10, 10}, Center: [2]int{5, 5}, Area: 100, Color: [3]int{200, 100, 50}, Confidence: 0.9, Stability: 0.85},
			{ID: "region_2", Number: 2, Label: "calcaneus", BBox: [4]int{20, 20, 30, 30}, Center: [2]int{25, 25}, Area: 100, Color: [3]int{60, 70, 80}, Confidence: 0.8, Stability: 0.8},
		},
		Diagnosis: entity.DiagnosisSummary{
			FullReport:       "The talus is intact.",
			MentionedRegions: []string{"talus"},
			NumMentioned:     1,
		},
	}
}

func newTestWriter(t *testing.T) IWriter {
	t.Setenv("APP_ENV", "test")
	t.Setenv("ANALYSIS_OUTPUT_DIR", t.TempDir())
	return NewWriter(log.NewLogger())
}

func TestWriteRunCreatesAllArtifacts(t *testing.T) {
	w := newTestWriter(t)

	dir, err := w.WriteRun("run123", testResult(), []byte("png-viz"), []byte("png-orig"))
	require.NoError(t, err)

	for _, name := range []string{DataFileName, VisualizationFileName, OriginalFileName, DiagnosisFileName} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		require.NoError(t, statErr, name)
	}

	viz, err := os.ReadFile(filepath.Join(dir, VisualizationFileName))
	require.NoError(t, err)
	require.Equal(t, []byte("png-viz"), viz)
}

func TestWriteRunDataJSONRoundTrips(t *testing.T) {
	w := newTestWriter(t)
	result := testResult()

	dir, err := w.WriteRun("run123", result, nil, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, DataFileName))
	require.NoError(t, err)

	var decoded entity.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, result, decoded)
}

func TestWriteRunReportHeader(t *testing.T) {
	w := newTestWriter(t)

	dir, err := w.WriteRun("run123", testResult(), nil, nil)
	require.NoError(t, err)

	report, err := os.ReadFile(filepath.Join(dir, DiagnosisFileName))
	require.NoError(t, err)

	text := string(report)
	require.True(t, strings.HasPrefix(text, "MRI ANALYSIS REPORT\n"))
	require.Contains(t, text, "Regions Identified: 2\n")
	require.Contains(t, text, "Regions Mentioned in Diagnosis: 1\n")
	require.Contains(t, text, strings.Repeat("=", 60))
	require.True(t, strings.HasSuffix(text, "The talus is intact."))
}

func TestReadResult(t *testing.T) {
	w := newTestWriter(t)
	result := testResult()

	dir, err := w.WriteRun("run123", result, nil, nil)
	require.NoError(t, err)

	loaded, err := w.ReadResult(dir)
	require.NoError(t, err)
	require.Equal(t, result, loaded)
}

func TestReadResultMissingDir(t *testing.T) {
	w := newTestWriter(t)

	_, err := w.ReadResult(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "run output missing")
}

func TestRunsGetSeparateDirectories(t *testing.T) {
	w := newTestWriter(t)

	dirA, err := w.WriteRun("runA", testResult(), nil, nil)
	require.NoError(t, err)
	dirB, err := w.WriteRun("runB", testResult(), nil, nil)
	require.NoError(t, err)

	require.NotEqual(t, dirA, dirB)
}
