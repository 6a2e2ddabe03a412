package lead

// Gap analysis: the full ordered list of capabilities a business has and is
// missing, with the Spanish display labels and the sin-* tags applied to
// exported CRM contacts.

type GapEntry struct {
	Capability Capability
	Label      string
	Tag        string
}

type GapSummary struct {
	Gaps     []GapEntry
	Has      []GapEntry
	GapCount int
	HasCount int
}

var capabilityLabels = map[Capability]struct {
	label string
	tag   string
}{
	CapWebsite:          {"Website propio", "sin-web"},
	CapSSL:              {"Certificado SSL", "sin-ssl"},
	CapChatWidget:       {"Chat widget", "sin-chat"},
	CapWhatsAppButton:   {"Botón WhatsApp", "sin-whatsapp"},
	CapContactForm:      {"Formulario de contacto", "sin-form"},
	CapFacebook:         {"Página de Facebook", "sin-facebook"},
	CapInstagram:        {"Cuenta Instagram", "sin-instagram"},
	CapLinkedIn:         {"Perfil LinkedIn", "sin-linkedin"},
	CapGoogleAnalytics:  {"Google Analytics", "sin-analytics"},
	CapGoogleTagManager: {"Google Tag Manager", "sin-gtm"},
	CapFacebookPixel:    {"Facebook Pixel", "sin-pixel"},
	CapCRMForms:         {"CRM integrado", "sin-crm"},
	CapBlog:             {"Blog/Contenido", "sin-blog"},
}

// Gaps splits the snapshot into present and missing capabilities, preserving
// the canonical capability order.
func Gaps(signals TechSignals) GapSummary {
	var summary GapSummary

	for _, cap := range Capabilities {
		meta := capabilityLabels[cap]
		entry := GapEntry{Capability: cap, Label: meta.label, Tag: meta.tag}
		if signals.Has(cap) {
			summary.Has = append(summary.Has, entry)
		} else {
			summary.Gaps = append(summary.Gaps, entry)
		}
	}

	summary.GapCount = len(summary.Gaps)
	summary.HasCount = len(summary.Has)
	return summary
}

// GapTags returns the sin-* tags for every missing capability.
func GapTags(signals TechSignals) []string {
	summary := Gaps(signals)
	tags := make([]string, 0, len(summary.Gaps))
	for _, gap := range summary.Gaps {
		tags = append(tags, gap.Tag)
	}
	return tags
}
