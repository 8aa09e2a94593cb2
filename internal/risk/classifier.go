package risk

type Tier string

type Tone string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

const (
	ToneGentle Tone = "Gentle"
	ToneNormal Tone = "Normal"
	ToneStrict Tone = "Strict"
)

const (
	MediumThreshold = 2000.0
	HighThreshold   = 5000.0
)

// Classify maps a bill total to a risk tier and the tone reminders should use.
// Thresholds are exclusive: exactly 2000 is Low and exactly 5000 is Medium.
// quantity does not influence the current policy.
func Classify(total, quantity float64) (Tier, Tone) {
	switch {
	case total > HighThreshold:
		return TierHigh, ToneStrict
	case total > MediumThreshold:
		return TierMedium, ToneNormal
	default:
		return TierLow, ToneGentle
	}
}

func (t Tier) String() string { return string(t) }

func (t Tone) String() string { return string(t) }
