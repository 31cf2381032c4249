package analysis

import "medclarity/internal/entity"

type AnalyzeRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	Filename    string `json:"filename"`
}

// RegionView is the front-end shape of a region: enough to draw and toggle
// the clickable highlight, nothing more.
type RegionView struct {
	ID        string `json:"id"`
	Number    int    `json:"number"`
	Label     string `json:"label"`
	Mentioned bool   `json:"mentioned"`
	Color     [3]int `json:"color"`
	BBox      [4]int `json:"bbox"`
	Center    [2]int `json:"center"`
}

type AnalyzeResponse struct {
	RunID         string           `json:"run_id"`
	Visualization string           `json:"visualization"`
	Regions       []RegionView     `json:"regions"`
	Diagnosis     string           `json:"diagnosis"`
	Metadata      entity.ImageInfo `json:"metadata"`
}

type RunListResponse struct {
	Data []entity.AnalysisRun `json:"data"`
}

type RunDetailResponse struct {
	Run    entity.AnalysisRun    `json:"run"`
	Result entity.AnalysisResult `json:"result"`
}

// ProgressEvent is streamed over the websocket endpoint as the pipeline
// moves between stages.
type ProgressEvent struct {
	Stage string `json:"stage"`
}
