// Package models contains data structures used throughout the application
package models

// Confidence is a coarse indicator of how much history backs an insight or
// prediction.
type Confidence string

// Confidence tiers.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// InsightCategory groups insights for display.
type InsightCategory string

// Insight categories.
const (
	CategoryFeeding InsightCategory = "feeding"
	CategorySleep   InsightCategory = "sleep"
	CategoryGeneral InsightCategory = "general"
)

// Insight is one descriptive pattern finding. Immutable once returned.
type Insight struct {
	Label      string          `json:"label"`
	Confidence Confidence      `json:"confidence"`
	Category   InsightCategory `json:"category"`
	Detail     InsightDetail   `json:"detail"`
}

// InsightDetail carries the supporting material behind an insight.
type InsightDetail struct {
	Description string           `json:"description"`
	Events      []InsightSource  `json:"events,omitempty"`
	Derivation  string           `json:"derivation"`
}

// InsightSource names one contributing log entry with its display value.
type InsightSource struct {
	EventID string `json:"eventId"`
	Display string `json:"display"`
}
