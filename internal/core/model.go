package core

import (
	"time"
)

// ScanRequest carries the inputs for a phishing scan. Either field may be
// empty; an empty channel contributes zero risk.
type ScanRequest struct {
	Email         string
	URL           string
	ZapServiceURL string
}

// ScanReport is the outcome of blending the per-channel classifier outputs.
type ScanReport struct {
	Verdict    string
	Confidence float64
	EmailRisk  float64
	URLRisk    float64
	Keywords   []string
	ScanStatus string
	AnalyzedAt time.Time
}

// Verdict values for ScanReport.
const (
	VerdictPhishing = "PHISHING"
	VerdictSafe     = "SAFE"
)

// Alert is a single finding reported by the scanning engine.
type Alert struct {
	Name string `json:"name"`
	Risk string `json:"risk"`
}

// ScanFindings is the raw alert payload collected from the scanning engine
// for one target.
type ScanFindings struct {
	Alerts []Alert `json:"alerts"`
}

// AlertSummary is the reduced, human-readable view of a findings payload.
type AlertSummary struct {
	Verdict   string   `json:"verdict"`
	RiskLevel string   `json:"risk_level"`
	Reasons   []string `json:"reasons"`
	Scanner   string   `json:"scanner"`
}

// CacheEntry is a cached verdict for a previously scored request.
type CacheEntry struct {
	Key        string
	Verdict    string
	Confidence float64
	EmailRisk  float64
	URLRisk    float64
	LastSeen   time.Time
	ExpiresAt  time.Time
}
