package analysisService

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"medclarity/internal/api/analysis"
	"medclarity/internal/entity"
	contextPkg "medclarity/pkg/context"
	"medclarity/pkg/masks"
	"medclarity/pkg/nlp"
	"medclarity/pkg/segmenter"
)

// Pipeline stage names, in execution order. Streamed to websocket clients
// and attached to stage failures.
const (
	StageSegment     = "segment"
	StageDeduplicate = "deduplicate"
	StageRender      = "render"
	StageLabel       = "label"
	StageDiagnose    = "diagnose"
	StageMatch       = "match"
	StageSerialize   = "serialize"
)

const cacheExpiration = 24 * time.Hour

// Analyze runs the full pipeline on one uploaded scan. Stages execute
// strictly in order and the first failure aborts the run; there is no
// checkpointing, a failed run restarts from segmentation.
func (s *analysisService) Analyze(ctx context.Context, imageData []byte, filename string, onStage func(stage string)) (*analysis.AnalyzeResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(imageData) == 0 {
		return nil, analysis.ErrNoImageProvided
	}

	imageHash := s.utils.MD5Hash(imageData)
	if cached := s.lookupCache(ctx, imageHash, requestID); cached != nil {
		return cached, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return nil, err
	}

	progress := func(stage string) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"run_id":     runID,
			"stage":      stage,
		}).Info("Pipeline stage started")
		if onStage != nil {
			onStage(stage)
		}
	}

	progress(StageSegment)
	rawMasks, err := s.segmenter.Segment(ctx, imageData, segmenter.DefaultParams())
	if err != nil {
		return nil, s.stageFailure(requestID, runID, StageSegment, fmt.Errorf("%w: %v", analysis.ErrSegmentationFailed, err))
	}

	progress(StageDeduplicate)
	kept := masks.Deduplicate(rawMasks, masks.DefaultIoUThreshold)
	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"run_id":     runID,
		"candidates": len(rawMasks),
		"kept":       len(kept),
	}).Info("Filtered overlapping regions")

	progress(StageRender)
	rendered, err := s.renderer.Render(imageData, kept)
	if err != nil {
		return nil, s.stageFailure(requestID, runID, StageRender, err)
	}

	progress(StageLabel)
	labelingPrompt := fmt.Sprintf(labelingPromptTemplate, len(rendered.Ordered), len(rendered.Ordered))
	labelResponse, err := s.gemini.AnalyzeImage(ctx, rendered.PNG, labelingPrompt, labelingMaxTokens, labelingTemperature)
	if err != nil {
		return nil, s.stageFailure(requestID, runID, StageLabel, fmt.Errorf("%w: %v", analysis.ErrModelInvocation, err))
	}
	labels := nlp.ParseRegionLabels(labelResponse)

	progress(StageDiagnose)
	diagnosis, err := s.gemini.AnalyzeImage(ctx, imageData, diagnosisPrompt, diagnosisMaxTokens, diagnosisTemperature)
	if err != nil {
		return nil, s.stageFailure(requestID, runID, StageDiagnose, fmt.Errorf("%w: %v", analysis.ErrModelInvocation, err))
	}

	progress(StageMatch)
	matches, mentionedTerms := nlp.MatchMentions(diagnosis, labels)
	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"run_id":     runID,
		"labeled":    len(labels),
		"mentioned":  len(mentionedTerms),
	}).Info("Matched diagnosis mentions to regions")

	progress(StageSerialize)
	regions := buildRegions(rendered.Ordered, rendered.Colors, labels, matches)
	result := buildResult(filename, rendered.Width, rendered.Height, regions, diagnosis)

	artifactDir, err := s.artifacts.WriteRun(runID, result, rendered.PNG, imageData)
	if err != nil {
		return nil, s.stageFailure(requestID, runID, StageSerialize, err)
	}

	s.recordRun(ctx, requestID, runID, filename, result, artifactDir)
	s.archiveArtifacts(requestID, runID, rendered.PNG, result)

	response := &analysis.AnalyzeResponse{
		RunID:         runID,
		Visualization: "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageData),
		Regions:       regionViews(regions),
		Diagnosis:     diagnosis,
		Metadata:      result.ImageInfo,
	}

	s.storeCache(ctx, imageHash, response, requestID)

	return response, nil
}

func (s *analysisService) stageFailure(requestID, runID, stage string, err error) error {
	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"run_id":     runID,
		"stage":      stage,
		"error":      err.Error(),
	}).Error("Pipeline stage failed")
	return fmt.Errorf("stage %s: %w", stage, err)
}

func (s *analysisService) lookupCache(ctx context.Context, imageHash, requestID string) *analysis.AnalyzeResponse {
	if s.cache == nil {
		return nil
	}

	payload, err := s.cache.GetResult(ctx, imageHash)
	if err != nil {
		return nil
	}

	var cached analysis.AnalyzeResponse
	if err := json.Unmarshal([]byte(payload), &cached); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"image_hash": imageHash,
			"error":      err.Error(),
		}).Warn("Discarding corrupt cached analysis")
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"image_hash": imageHash,
		"run_id":     cached.RunID,
	}).Info("Serving analysis from cache")

	return &cached
}

func (s *analysisService) storeCache(ctx context.Context, imageHash string, response *analysis.AnalyzeResponse, requestID string) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := s.cache.SetResult(ctx, imageHash, string(payload), cacheExpiration); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"image_hash": imageHash,
			"error":      err.Error(),
		}).Warn("Failed to cache analysis result")
	}
}

func (s *analysisService) recordRun(ctx context.Context, requestID, runID, filename string, result entity.AnalysisResult, artifactDir string) {
	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"run_id":     runID,
			"error":      err.Error(),
		}).Error("Failed to open repository client for run record")
		return
	}

	run := entity.AnalysisRun{
		ID:           runID,
		Filename:     filename,
		Width:        result.ImageInfo.Width,
		Height:       result.ImageInfo.Height,
		NumRegions:   result.ImageInfo.NumRegions,
		NumMentioned: result.Diagnosis.NumMentioned,
		ArtifactDir:  artifactDir,
	}

	if err := repoClient.Runs.CreateRun(ctx, run); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"run_id":     runID,
			"error":      err.Error(),
		}).Error("Failed to record analysis run")
	}
}

// archiveArtifacts pushes the visualization and report to object storage when
// a bucket is configured. Archival failures never fail the run.
func (s *analysisService) archiveArtifacts(requestID, runID string, visualizationPNG []byte, result entity.AnalysisResult) {
	if s.s3 == nil {
		return
	}

	if _, err := s.s3.UploadBytes(runID+"/annotated_visualization.png", visualizationPNG, "image/png"); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"run_id":     runID,
			"error":      err.Error(),
		}).Warn("Failed to archive visualization to S3")
	}

	if _, err := s.s3.UploadBytes(runID+"/diagnosis_report.txt", []byte(result.Diagnosis.FullReport), "text/plain"); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"run_id":     runID,
			"error":      err.Error(),
		}).Warn("Failed to archive diagnosis report to S3")
	}
}
