package terminal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palava-proof/internal/domain/models"
	"palava-proof/internal/domain/services"
)

func present(t *testing.T, msg string) *models.DisplayPayload {
	t.Helper()
	p, err := services.Present(services.Classify(msg), msg)
	require.NoError(t, err)
	return p
}

func TestRenderDanger(t *testing.T) {
	out := Render(present(t, "URGENT!!! You won a prize. Click here: bit.ly/xyz"))

	assert.Contains(t, out, "PALAVA DETECTED! Do not respond!")
	assert.Contains(t, out, "70% confidence score")
	assert.Contains(t, out, "⚠️ Warning Signs Found:")
	assert.Contains(t, out, "• Contains shortened URL")
	assert.Contains(t, out, "📝 Message analyzed:")
	assert.Contains(t, out, "Share Warning")
}

func TestRenderSafeHidesFindings(t *testing.T) {
	out := Render(present(t, "Dinner at 7?"))

	assert.Contains(t, out, "This message appears safe")
	assert.NotContains(t, out, "Warning Signs Found")
}

func TestMeter(t *testing.T) {
	tests := []struct {
		confidence int
		filled     int
	}{
		{0, 0},
		{30, 6},
		{70, 14},
		{100, 20},
		{140, 20},
	}
	for _, tt := range tests {
		m := Meter(tt.confidence, "#EF4444")
		assert.Equal(t, tt.filled, strings.Count(m, "█"), "confidence %d", tt.confidence)
		assert.Equal(t, MeterWidth-tt.filled, strings.Count(m, "░"), "confidence %d", tt.confidence)
	}
}

func TestRenderReports(t *testing.T) {
	assert.Contains(t, RenderReports(nil), "No reports yet.")

	out := RenderReports([]models.Report{{ID: 3, Type: "sms", TimesReported: 5, Content: "line one\nline two"}})
	assert.Contains(t, out, "line one line two")
	assert.Contains(t, out, "sms")
}

func TestRenderCategories(t *testing.T) {
	out := RenderCategories(services.Categories())
	assert.Contains(t, out, "urgency")
	assert.Contains(t, out, "bit.ly")
}
