package lead

import (
	"testing"
)

// signalsFromBits builds a TechSignals with the i-th capability (in
// Capabilities order) set when bit i of mask is set. Used to sweep all
// 2^13 flag combinations.
func signalsFromBits(mask int) TechSignals {
	var s TechSignals
	set := func(c Capability, on bool) {
		switch c {
		case CapWebsite:
			s.HasWebsite = on
		case CapSSL:
			s.HasSSL = on
		case CapChatWidget:
			s.HasChatWidget = on
		case CapContactForm:
			s.HasContactForm = on
		case CapWhatsAppButton:
			s.HasWhatsAppButton = on
		case CapFacebook:
			s.HasFacebook = on
		case CapInstagram:
			s.HasInstagram = on
		case CapLinkedIn:
			s.HasLinkedIn = on
		case CapGoogleAnalytics:
			s.HasGoogleAnalytics = on
		case CapGoogleTagManager:
			s.HasGoogleTagManager = on
		case CapFacebookPixel:
			s.HasFacebookPixel = on
		case CapCRMForms:
			s.HasCRMForms = on
		case CapBlog:
			s.HasBlog = on
		}
	}
	for i, c := range Capabilities {
		set(c, mask&(1<<i) != 0)
	}
	return s
}

func TestScore_NoPresenceIsMaximum(t *testing.T) {
	score := Score(TechSignals{})
	if score != 100 {
		t.Errorf("Expected score 100 for empty presence, got %d", score)
	}
}

func TestScore_FullyEquippedIsZero(t *testing.T) {
	all := signalsFromBits((1 << len(Capabilities)) - 1)
	score := Score(all)
	if score != 0 {
		t.Errorf("Expected score 0 with all capabilities present, got %d", score)
	}
}

func TestScore_WebsiteWeightDominates(t *testing.T) {
	// No website must be the strongest single opportunity signal.
	for _, c := range Capabilities {
		if c == CapWebsite {
			continue
		}
		if Weight(c) >= Weight(CapWebsite) {
			t.Errorf("Weight of %s (%d) should be below website weight (%d)", c, Weight(c), Weight(CapWebsite))
		}
	}
}

func TestScore_BlogWeightIsSmallest(t *testing.T) {
	for _, c := range Capabilities {
		if c == CapBlog {
			continue
		}
		if Weight(c) <= Weight(CapBlog) {
			t.Errorf("Weight of %s (%d) should be above blog weight (%d)", c, Weight(c), Weight(CapBlog))
		}
	}
}

func TestScore_BoundsForAllCombinations(t *testing.T) {
	for mask := 0; mask < 1<<len(Capabilities); mask++ {
		score := Score(signalsFromBits(mask))
		if score < 0 || score > 100 {
			t.Fatalf("Score out of bounds for mask %013b: %d", mask, score)
		}
	}
}

func TestScore_MonotoneNonIncreasing(t *testing.T) {
	// Turning any single capability on must never raise the score.
	for mask := 0; mask < 1<<len(Capabilities); mask++ {
		base := Score(signalsFromBits(mask))
		for i := range Capabilities {
			if mask&(1<<i) != 0 {
				continue
			}
			superset := Score(signalsFromBits(mask | 1<<i))
			if superset > base {
				t.Fatalf("Score increased from %d to %d when adding capability %s to mask %013b",
					base, superset, Capabilities[i], mask)
			}
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := signalsFromBits(0b1010110010101)
	first := Score(s)
	for i := 0; i < 10; i++ {
		if got := Score(s); got != first {
			t.Fatalf("Score not deterministic: got %d then %d", first, got)
		}
	}
}

func TestScore_WebsiteAndSSLOnly(t *testing.T) {
	s := TechSignals{HasWebsite: true, HasSSL: true}
	score := Score(s)

	if score != 58 {
		t.Errorf("Expected score 58 for website+SSL only, got %d", score)
	}
	if got := Classify(score); got != CategoryMedium {
		t.Errorf("Expected category %s for score %d, got %s", CategoryMedium, score, got)
	}
}

func TestScore_EndToEndBuckets(t *testing.T) {
	noWebsite := Score(TechSignals{})
	if got := Classify(noWebsite); got != CategoryHot {
		t.Errorf("No-presence lead should classify as %s, got %s", CategoryHot, got)
	}

	fullyEquipped := Score(signalsFromBits((1 << len(Capabilities)) - 1))
	if got := Classify(fullyEquipped); got != CategoryCold {
		t.Errorf("Fully equipped lead should classify as %s, got %s", CategoryCold, got)
	}
}

func TestWeights_SumToMaximum(t *testing.T) {
	sum := 0
	for _, c := range Capabilities {
		sum += Weight(c)
	}
	if sum != 100 {
		t.Errorf("Expected weights to sum to 100, got %d", sum)
	}
}
