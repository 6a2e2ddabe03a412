package lead

// TechSignals is an immutable snapshot of a single website probe. A nil
// provider/URL pointer always accompanies a false flag; the analyzer and the
// repositories both maintain that invariant.
type TechSignals struct {
	HasWebsite        bool
	HasSSL            bool
	HasChatWidget     bool
	ChatProvider      *string
	HasContactForm    bool
	HasWhatsAppButton bool

	HasFacebook  bool
	FacebookURL  *string
	HasInstagram bool
	InstagramURL *string
	HasLinkedIn  bool
	LinkedInURL  *string

	HasGoogleAnalytics  bool
	HasGoogleTagManager bool
	HasFacebookPixel    bool

	HasCRMForms bool
	CRMProvider *string
	HasBlog     bool
}

// Capability identifies one of the 13 boolean signals.
type Capability string

const (
	CapWebsite          Capability = "has_website"
	CapSSL              Capability = "has_ssl"
	CapChatWidget       Capability = "has_chat_widget"
	CapContactForm      Capability = "has_contact_form"
	CapWhatsAppButton   Capability = "has_whatsapp_button"
	CapFacebook         Capability = "has_facebook"
	CapInstagram        Capability = "has_instagram"
	CapLinkedIn         Capability = "has_linkedin"
	CapGoogleAnalytics  Capability = "has_google_analytics"
	CapGoogleTagManager Capability = "has_google_tag_manager"
	CapFacebookPixel    Capability = "has_facebook_pixel"
	CapCRMForms         Capability = "has_crm_forms"
	CapBlog             Capability = "has_blog"
)

// Capabilities lists all signals in display order (most valuable gap first).
var Capabilities = []Capability{
	CapWebsite,
	CapSSL,
	CapChatWidget,
	CapWhatsAppButton,
	CapContactForm,
	CapFacebook,
	CapInstagram,
	CapLinkedIn,
	CapGoogleAnalytics,
	CapGoogleTagManager,
	CapFacebookPixel,
	CapCRMForms,
	CapBlog,
}

// Has reports whether the capability is present in the snapshot.
func (s TechSignals) Has(c Capability) bool {
	switch c {
	case CapWebsite:
		return s.HasWebsite
	case CapSSL:
		return s.HasSSL
	case CapChatWidget:
		return s.HasChatWidget
	case CapContactForm:
		return s.HasContactForm
	case CapWhatsAppButton:
		return s.HasWhatsAppButton
	case CapFacebook:
		return s.HasFacebook
	case CapInstagram:
		return s.HasInstagram
	case CapLinkedIn:
		return s.HasLinkedIn
	case CapGoogleAnalytics:
		return s.HasGoogleAnalytics
	case CapGoogleTagManager:
		return s.HasGoogleTagManager
	case CapFacebookPixel:
		return s.HasFacebookPixel
	case CapCRMForms:
		return s.HasCRMForms
	case CapBlog:
		return s.HasBlog
	}
	return false
}
