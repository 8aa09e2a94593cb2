package bill_test

import (
	"strings"
	"testing"
	"time"

	"github.com/Behyna/hisabkitab/internal/bill"
	"github.com/Behyna/hisabkitab/internal/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, time.March, 5, 9, 7, 0, 0, time.UTC)
}

func TestRenderer_Render(t *testing.T) {
	r := bill.NewRendererWithClock(bill.Config{}, fixedClock)

	b := r.Render("Ravi", "Rice", 6000, risk.TierHigh, risk.ToneStrict)

	assert.Contains(t, b.Text, "Ravi")
	assert.Contains(t, b.Text, "Rice")
	assert.Contains(t, b.Text, "6000")
	assert.Contains(t, b.Text, "Risk: High")
	assert.Contains(t, b.Text, "05-03-2026 09:07")
	assert.Contains(t, b.Text, "*URGENT:*")

	lines := strings.Split(b.Text, "\n")
	require.Greater(t, len(lines), 8)
	assert.Equal(t, "*OFFICIAL INVOICE: HISAB-KITAB*", lines[0])
}

func TestRenderer_ShareLink(t *testing.T) {
	t.Run("replaces spaces and newlines only", func(t *testing.T) {
		r := bill.NewRendererWithClock(bill.Config{}, fixedClock)

		link := r.ShareLink("a b\nc&d")

		assert.Equal(t, "https://wa.me/?text=a%20b%0Ac&d", link)
	})

	t.Run("custom base url", func(t *testing.T) {
		r := bill.NewRendererWithClock(bill.Config{ShareBaseURL: "https://share.example/?t="}, fixedClock)

		link := r.ShareLink("x y")

		assert.Equal(t, "https://share.example/?t=x%20y", link)
	})

	t.Run("rendered bill link matches text", func(t *testing.T) {
		r := bill.NewRendererWithClock(bill.Config{}, fixedClock)

		b := r.Render("Asha", "Dal", 150.5, risk.TierLow, risk.ToneGentle)

		assert.NotContains(t, b.ShareLink, " ")
		assert.NotContains(t, b.ShareLink, "\n")
		assert.Equal(t, r.ShareLink(b.Text), b.ShareLink)
	})
}

func TestReminder(t *testing.T) {
	assert.Contains(t, bill.Reminder("Ravi", 6000, risk.ToneStrict), "immediately")
	assert.Contains(t, bill.Reminder("Ravi", 3000, risk.ToneNormal), "is due")
	assert.Contains(t, bill.Reminder("Ravi", 100, risk.ToneGentle), "when convenient")
	assert.Contains(t, bill.Reminder("Ravi", 100, risk.ToneGentle), "₹100.00")
}

func TestReport(t *testing.T) {
	assert.Equal(t, "Customer: Medium, Recommended Tone: Normal", bill.Report(risk.TierMedium, risk.ToneNormal))
}
