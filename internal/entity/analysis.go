package entity

import "time"

type ImageInfo struct {
	Filename   string `json:"filename"`
	NumRegions int    `json:"num_regions"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

type DiagnosisSummary struct {
	FullReport       string   `json:"full_report"`
	MentionedRegions []string `json:"mentioned_regions"`
	NumMentioned     int      `json:"num_mentioned"`
}

// AnalysisResult is the full pipeline output persisted as data.json and
// cached in Redis; it is the sole artifact crossing to consumers.
type AnalysisResult struct {
	ImageInfo ImageInfo        `json:"image_info"`
	Regions   []Region         `json:"regions"`
	Diagnosis DiagnosisSummary `json:"diagnosis"`
}

// AnalysisRun is the database record of one pipeline execution.
type AnalysisRun struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	NumRegions   int       `json:"num_regions"`
	NumMentioned int       `json:"num_mentioned"`
	ArtifactDir  string    `json:"artifact_dir"`
	CreatedAt    time.Time `json:"created_at"`
}
