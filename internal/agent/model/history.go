package model

import (
	"context"
	"time"
)

// ScanHistoryItem is one persisted scan. The list is append-only, newest first.
type ScanHistoryItem struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Crop      Crop           `json:"crop"`
	Image     []byte         `json:"image"`
	MIMEType  string         `json:"mimeType,omitempty"`
	Result    AnalysisResult `json:"result"`
	Location  *Location      `json:"location,omitempty"`
}

// HistoryRepository persists scan history. Implementations return items newest first.
type HistoryRepository interface {
	// Append records a new scan at the head of the list.
	Append(ctx context.Context, item ScanHistoryItem) error

	// Load returns all stored scans, newest first.
	Load(ctx context.Context) ([]ScanHistoryItem, error)

	// Clear removes all stored scans.
	Clear(ctx context.Context) error
}
