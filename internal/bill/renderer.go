package bill

import (
	"fmt"
	"strings"
	"time"

	"github.com/Behyna/hisabkitab/internal/money"
	"github.com/Behyna/hisabkitab/internal/risk"
)

const (
	DefaultShareBaseURL = "https://wa.me/?text="
	timestampLayout     = "02-01-2006 15:04"
	separator           = "--------------------------"
)

type Config struct {
	ShareBaseURL string `mapstructure:"share_base_url"`
}

type Bill struct {
	Text      string
	ShareLink string
}

type Renderer struct {
	shareBaseURL string
	now          func() time.Time
}

func NewRenderer(cfg Config) *Renderer {
	return NewRendererWithClock(cfg, time.Now)
}

func NewRendererWithClock(cfg Config, now func() time.Time) *Renderer {
	base := cfg.ShareBaseURL
	if base == "" {
		base = DefaultShareBaseURL
	}
	return &Renderer{shareBaseURL: base, now: now}
}

// Render builds the invoice text followed by a tone-specific reminder, and
// the share link carrying that text.
func (r *Renderer) Render(customerName, item string, total float64, tier risk.Tier, tone risk.Tone) Bill {
	amount := money.Format(total)

	var b strings.Builder
	b.WriteString("*OFFICIAL INVOICE: HISAB-KITAB*\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Customer: *%s*\n", customerName)
	fmt.Fprintf(&b, "Item: %s\n", item)
	fmt.Fprintf(&b, "Total: *₹%s*\n", amount)
	fmt.Fprintf(&b, "Risk: %s\n", tier)
	fmt.Fprintf(&b, "Date: %s\n", r.now().Format(timestampLayout))
	b.WriteString(separator + "\n")
	b.WriteString("\n*Reminder:*\n")
	b.WriteString(Reminder(customerName, total, tone))

	text := b.String()
	return Bill{Text: text, ShareLink: r.ShareLink(text)}
}

// ShareLink substitutes only spaces and newlines. Existing consumers parse
// exactly this form, so it is not full percent-encoding.
func (r *Renderer) ShareLink(text string) string {
	encoded := strings.ReplaceAll(text, " ", "%20")
	encoded = strings.ReplaceAll(encoded, "\n", "%0A")
	return r.shareBaseURL + encoded
}

func Reminder(customerName string, total float64, tone risk.Tone) string {
	amount := money.Format(total)

	switch tone {
	case risk.ToneStrict:
		return fmt.Sprintf("*URGENT:* %s, your payment of ₹%s is pending. Please clear it immediately.", customerName, amount)
	case risk.ToneNormal:
		return fmt.Sprintf("Hello %s, your bill of ₹%s is due. Please pay on time.", customerName, amount)
	default:
		return fmt.Sprintf("Namaste %s ji, your account of ₹%s has been recorded. Please review it when convenient.", customerName, amount)
	}
}

func Report(tier risk.Tier, tone risk.Tone) string {
	return fmt.Sprintf("Customer: %s, Recommended Tone: %s", tier, tone)
}
