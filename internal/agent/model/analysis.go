package model

// Location is an optional best-effort geolocation attached to a scan.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AnalysisRequest is created per analysis attempt.
type AnalysisRequest struct {
	Image    []byte
	MIMEType string
	Crop     Crop
	Language Language
	Location *Location
}

// Remedies splits treatments into chemical and organic options, each in display order.
type Remedies struct {
	Chemical []string `json:"chemical"`
	Organic  []string `json:"organic"`
}

// GroundingLink is a citation attached to a model answer.
type GroundingLink struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// AnalysisResult is the normalized diagnosis. It is created once per successful
// analysis and treated as immutable afterwards: results, cache and speech share it.
type AnalysisResult struct {
	DiseaseName     string          `json:"diseaseName"`
	ConfidenceScore int             `json:"confidenceScore"`
	IsHealthy       bool            `json:"isHealthy"`
	Description     string          `json:"description"`
	Symptoms        []string        `json:"symptoms"`
	Remedies        Remedies        `json:"remedies"`
	Prevention      []string        `json:"preventiveMeasures"`
	CropMismatch    bool            `json:"cropMismatch,omitempty"`
	MismatchReason  string          `json:"mismatchReason,omitempty"`
	GroundingLinks  []GroundingLink `json:"groundingLinks"`
	Language        Language        `json:"language"`
}
