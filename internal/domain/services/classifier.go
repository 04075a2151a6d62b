package services

import (
	"strings"

	"palava-proof/internal/domain/models"
)

// Score thresholds. Status and IsScam are derived only from confidence.
const (
	MaxConfidence       = 100
	DangerThreshold     = 60
	SuspiciousThreshold = 30
	ScamThreshold       = 30
)

// Classify scores a message against the detection table. It never fails:
// empty or blank text yields a safe verdict with no findings. Safe for
// concurrent use.
func Classify(message string) models.Verdict {
	lower := strings.ToLower(message)

	findings := make([]models.Finding, 0, len(indicators))
	total := 0
	for _, in := range indicators {
		if !in.triggered(message, lower) {
			continue
		}
		findings = append(findings, models.Finding{
			Category: in.category,
			Text:     in.finding,
		})
		total += in.weight
	}

	confidence := min(total, MaxConfidence)

	return models.Verdict{
		Status:     StatusFor(confidence),
		Confidence: confidence,
		Findings:   findings,
		IsScam:     confidence >= ScamThreshold,
	}
}

// StatusFor maps a confidence score to its status label
func StatusFor(confidence int) models.Status {
	switch {
	case confidence >= DangerThreshold:
		return models.StatusDanger
	case confidence >= SuspiciousThreshold:
		return models.StatusSuspicious
	default:
		return models.StatusSafe
	}
}
