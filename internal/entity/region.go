package entity

// Region is one detected anatomical structure. Number is the 1-based rank by
// pixel area descending, assigned once at render time and never changed.
// BBox is [x1, y1, x2, y2] in pixel coordinates; Color is an RGB triple.
type Region struct {
	ID         string  `json:"id"`
	Number     int     `json:"number"`
	Label      string  `json:"label"`
	Mentioned  bool    `json:"mentioned_in_diagnosis"`
	BBox       [4]int  `json:"bbox"`
	Center     [2]int  `json:"center"`
	Area       int     `json:"area"`
	Color      [3]int  `json:"color"`
	Confidence float64 `json:"confidence"`
	Stability  float64 `json:"stability"`
}
