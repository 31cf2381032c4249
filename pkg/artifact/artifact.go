// Package artifact persists one run's output files: the structured JSON,
// the annotated visualization, a copy of the source scan and the plain-text
// diagnosis report.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"medclarity/internal/entity"
)

const (
	DataFileName          = "data.json"
	VisualizationFileName = "annotated_visualization.png"
	OriginalFileName      = "original.png"
	DiagnosisFileName     = "diagnosis_report.txt"
)

type IWriter interface {
	WriteRun(runID string, result entity.AnalysisResult, visualizationPNG []byte, originalImage []byte) (string, error)
	ReadResult(dir string) (entity.AnalysisResult, error)
}

type writer struct {
	root string
	log  *logrus.Logger
}

func NewWriter(log *logrus.Logger) IWriter {
	root := os.Getenv("ANALYSIS_OUTPUT_DIR")
	if root == "" {
		root = "./storage/analysis"
	}

	return &writer{
		root: root,
		log:  log,
	}
}

// WriteRun creates the per-run directory and writes all four artifacts.
// Every run gets its own directory so concurrent runs never share paths.
func (w *writer) WriteRun(runID string, result entity.AnalysisResult, visualizationPNG []byte, originalImage []byte) (string, error) {
	dir := filepath.Join(w.root, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize analysis result: %w", err)
	}

	files := map[string][]byte{
		DataFileName:          payload,
		VisualizationFileName: visualizationPNG,
		OriginalFileName:      originalImage,
		DiagnosisFileName:     []byte(reportText(result)),
	}

	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			w.log.WithFields(logrus.Fields{
				"run_id": runID,
				"file":   path,
				"error":  err.Error(),
			}).Error("Failed to write run artifact")
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	return dir, nil
}

func (w *writer) ReadResult(dir string) (entity.AnalysisResult, error) {
	var result entity.AnalysisResult

	data, err := os.ReadFile(filepath.Join(dir, DataFileName))
	if err != nil {
		return result, fmt.Errorf("run output missing at %s: %w", filepath.Join(dir, DataFileName), err)
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("corrupt run output in %s: %w", dir, err)
	}

	return result, nil
}

// reportText renders the diagnosis file with its fixed header block.
func reportText(result entity.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "MRI ANALYSIS REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Regions Identified: %d\n", result.ImageInfo.NumRegions)
	fmt.Fprintf(&b, "Regions Mentioned in Diagnosis: %d\n\n", result.Diagnosis.NumMentioned)
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n\n")
	b.WriteString(result.Diagnosis.FullReport)

	return b.String()
}
