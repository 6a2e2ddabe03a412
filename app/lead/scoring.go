package lead

// Opportunity scoring: the score is an inverse proxy for technological
// maturity. A business with no online presence scores 100 (maximum
// opportunity); a business that already has every capability scores 0.
//
// The computation starts at 100 and subtracts a fixed weight for each
// capability the business HAS, so adding capabilities can only lower the
// score (monotone non-increase). The weights sum to exactly 100.

var scoreWeights = map[Capability]int{
	CapWebsite:          30,
	CapSSL:              12,
	CapContactForm:      8,
	CapCRMForms:         8,
	CapWhatsAppButton:   7,
	CapChatWidget:       6,
	CapFacebook:         5,
	CapInstagram:        5,
	CapGoogleAnalytics:  5,
	CapLinkedIn:         4,
	CapGoogleTagManager: 4,
	CapFacebookPixel:    4,
	CapBlog:             2,
}

const maxScore = 100

// Score computes the opportunity score for a probe snapshot. It is pure,
// deterministic and total: every input maps to a value in [0, 100].
func Score(signals TechSignals) int {
	score := maxScore

	for _, cap := range Capabilities {
		if signals.Has(cap) {
			score -= scoreWeights[cap]
		}
	}

	if score < 0 {
		score = 0
	}
	if score > maxScore {
		score = maxScore
	}
	return score
}

// Weight returns the scoring weight of a capability. Exposed so export
// tagging and tests stay consistent with the rubric.
func Weight(c Capability) int {
	return scoreWeights[c]
}
