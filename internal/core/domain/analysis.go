package domain

const AnalysisCompleted = "completed"

// AnalysisResult is what an Analyzer reports for a single media reference.
type AnalysisResult struct {
	Status         string  `json:"status"`
	AverageScore   float64 `json:"average_score"`
	FramesAnalyzed int     `json:"frames_analyzed"`
	GraphURL       string  `json:"graph_url"`
}
