// Package risk turns model probabilities into a risk tier and canned
// advice for the results screen.
package risk

// Tier is the coarse risk category shown to the user.
type Tier string

const (
	TierLow      Tier = "Low Risk"
	TierModerate Tier = "Moderate Risk"
	TierHigh     Tier = "High Risk"
)

// TierFor maps a probability to its tier. Pure and total: every p gets
// exactly one tier.
func TierFor(p float64) Tier {
	switch {
	case p >= 0.5:
		return TierHigh
	case p >= 0.2:
		return TierModerate
	default:
		return TierLow
	}
}

// Symbol is the marker rendered next to the tier heading.
func (t Tier) Symbol() string {
	switch t {
	case TierHigh:
		return "🔴"
	case TierModerate:
		return "🟠"
	default:
		return "🟢"
	}
}

// Advice returns the fixed recommendation bullets for a tier.
func (t Tier) Advice() []string {
	switch t {
	case TierHigh:
		return []string{
			"Consult a gynecologist as soon as possible for a full examination.",
			"A colposcopy or biopsy follow-up is strongly recommended.",
			"Ask your doctor about HPV testing and vaccination status.",
			"If you smoke, seek support to quit; smoking compounds cervical risk.",
		}
	case TierModerate:
		return []string{
			"Schedule a cervical screening appointment in the near term.",
			"Discuss your contraceptive history and STD screening with a clinician.",
			"Repeat a Pap test within 6 to 12 months.",
			"Review lifestyle risk factors with your healthcare provider.",
		}
	default:
		return []string{
			"Keep up routine cervical screening at the interval your clinician recommends.",
			"Maintain HPV vaccination if eligible.",
			"Continue healthy habits; no immediate follow-up is indicated.",
		}
	}
}
