package services

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"palava-proof/internal/domain/models"
)

// ErrUnknownStatus means a verdict carried a status outside the known
// set. Classify never produces one, so this is a programming error.
var ErrUnknownStatus = errors.New("unknown verdict status")

// PreviewLength is the number of characters of the original message shown
// back to the user
const PreviewLength = 150

// Confidence meter colors. The meter uses strict comparisons, so a score
// of exactly 60 or 30 is drawn one tier lower than its status label.
const (
	ConfidenceColorRed   = "#EF4444"
	ConfidenceColorAmber = "#F59E0B"
	ConfidenceColorGreen = "#10B981"
)

// StatusStyle is the fixed look of a status badge
type StatusStyle struct {
	Icon            string
	Title           string
	Class           string
	BackgroundColor string
	TextColor       string
}

// StyleFor returns the badge style of a status
func StyleFor(status models.Status) (StatusStyle, error) {
	switch status {
	case models.StatusSafe:
		return StatusStyle{
			Icon:            "✅",
			Title:           "This message appears safe",
			Class:           "safe",
			BackgroundColor: "#D1FAE5",
			TextColor:       "#065F46",
		}, nil
	case models.StatusSuspicious:
		return StatusStyle{
			Icon:            "⚠️",
			Title:           "Suspicious - Check carefully",
			Class:           "suspicious",
			BackgroundColor: "#FEF3C7",
			TextColor:       "#92400E",
		}, nil
	case models.StatusDanger:
		return StatusStyle{
			Icon:            "🚨",
			Title:           "PALAVA DETECTED! Do not respond!",
			Class:           "danger",
			BackgroundColor: "#FEE2E2",
			TextColor:       "#991B1B",
		}, nil
	}
	return StatusStyle{}, fmt.Errorf("%w: %q", ErrUnknownStatus, string(status))
}

// ConfidenceColor picks the meter color for a score
func ConfidenceColor(confidence int) string {
	switch {
	case confidence > 60:
		return ConfidenceColorRed
	case confidence > 30:
		return ConfidenceColorAmber
	default:
		return ConfidenceColorGreen
	}
}

// Preview truncates a message to PreviewLength characters and marks the
// cut with "..."
func Preview(message string) string {
	runes := []rune(message)
	if len(runes) <= PreviewLength {
		return message
	}
	return string(runes[:PreviewLength]) + "..."
}

// resultActions are the affordances offered under every result
var resultActions = [...]models.Action{
	{Kind: models.ActionMarkAccurate, Icon: "👍", Label: "Yes, accurate"},
	{Kind: models.ActionMarkInaccurate, Icon: "👎", Label: "No, needs review"},
	{Kind: models.ActionShare, Icon: "📤", Label: "Share Warning"},
}

// Present builds the display payload for a verdict and the message it was
// computed from
func Present(v models.Verdict, message string) (*models.DisplayPayload, error) {
	style, err := StyleFor(v.Status)
	if err != nil {
		return nil, err
	}

	payload := &models.DisplayPayload{
		Status:          v.Status,
		Icon:            style.Icon,
		Title:           style.Title,
		Class:           style.Class,
		BackgroundColor: style.BackgroundColor,
		TextColor:       style.TextColor,
		Confidence:      v.Confidence,
		ConfidenceLabel: strconv.Itoa(v.Confidence) + "% confidence score",
		ConfidenceColor: ConfidenceColor(v.Confidence),
		PreviewLabel:    "📝 Message analyzed:",
		Preview:         Preview(message),
		Actions:         slices.Clone(resultActions[:]),
	}

	if len(v.Findings) > 0 {
		payload.FindingsHeading = "⚠️ Warning Signs Found:"
		payload.Findings = make([]string, len(v.Findings))
		for i, f := range v.Findings {
			payload.Findings[i] = f.Text
		}
	}

	return payload, nil
}
