package analyzer

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amerello/lead-radar/app/lead"
)

// Chat widget providers and their script/markup fingerprints. Cliengo is
// popular with Argentine agencies.
var chatProviders = []struct {
	name     string
	patterns []string
}{
	{"tidio", []string{"tidio", "tidiochat"}},
	{"drift", []string{"drift.com", "js.driftt.com"}},
	{"intercom", []string{"intercom", "intercomcdn"}},
	{"zendesk", []string{"zendesk", "zdassets"}},
	{"crisp", []string{"crisp.chat", "client.crisp.chat"}},
	{"livechat", []string{"livechatinc", "livechat"}},
	{"hubspot", []string{"js.hs-scripts", "hubspot"}},
	{"freshchat", []string{"freshchat", "wchat.freshchat"}},
	{"tawk", []string{"tawk.to", "embed.tawk.to"}},
	{"olark", []string{"olark"}},
	{"purechat", []string{"purechat"}},
	{"smartsupp", []string{"smartsupp"}},
	{"jivochat", []string{"jivo", "jivosite"}},
	{"chatra", []string{"chatra"}},
	{"cliengo", []string{"cliengo"}},
}

// CRM form fingerprints. Tokko, Properati and Navent are the Argentine
// real-estate portals.
var crmProviders = []struct {
	name     string
	patterns []string
}{
	{"hubspot", []string{"hs-form", "hsforms", "hubspot"}},
	{"salesforce", []string{"salesforce", "pardot"}},
	{"zoho", []string{"zoho.com/crm", "zohocrm"}},
	{"pipedrive", []string{"pipedrive"}},
	{"activecampaign", []string{"activecampaign"}},
	{"mailchimp", []string{"mailchimp", "mc-embedded"}},
	{"tokko", []string{"tokkobroker", "tokko"}},
	{"properati", []string{"properati"}},
	{"navent", []string{"navent"}},
}

var whatsappLinkRe = regexp.MustCompile(`(?i)wa\.me|api\.whatsapp\.com|whatsapp:`)

var whatsappMarkupPatterns = []string{
	"whatsapp",
	"wa-button",
	"whatsapp-button",
	"btn-whatsapp",
	"fab fa-whatsapp",
	"icon-whatsapp",
}

var googleAnalyticsPatterns = []string{
	"google-analytics.com/analytics.js",
	"googletagmanager.com/gtag/js",
	"gtag('config'",
	"ga('create'",
	"_gaq.push",
	"UA-",
	"G-",
}

var googleTagManagerPatterns = []string{
	"googletagmanager.com/gtm.js",
	"GTM-",
}

var facebookPixelPatterns = []string{
	"connect.facebook.net",
	"fbq('init'",
	"facebook.com/tr",
	"_fbq",
}

var blogPathPatterns = []string{
	"/blog",
	"/noticias",
	"/articulos",
	"/news",
	"/novedades",
}

func detectChatWidget(html string, signals *lead.TechSignals) {
	htmlLower := strings.ToLower(html)

	for _, provider := range chatProviders {
		for _, pattern := range provider.patterns {
			if strings.Contains(htmlLower, pattern) {
				name := provider.name
				signals.HasChatWidget = true
				signals.ChatProvider = &name
				return
			}
		}
	}
}

func detectWhatsApp(html string) bool {
	if whatsappLinkRe.MatchString(html) {
		return true
	}

	htmlLower := strings.ToLower(html)
	for _, pattern := range whatsappMarkupPatterns {
		if strings.Contains(htmlLower, pattern) {
			return true
		}
	}
	return false
}

// Any form counts as a capture channel; provider-specific forms are the CRM
// detection's job.
func detectContactForm(doc *goquery.Document) bool {
	return doc.Find("form").Length() > 0
}

func detectSocialMedia(doc *goquery.Document, signals *lead.TechSignals) {
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := sel.AttrOr("href", "")

		if strings.Contains(href, "facebook.com") && !strings.Contains(href, "/share") {
			signals.HasFacebook = true
			if signals.FacebookURL == nil {
				url := href
				signals.FacebookURL = &url
			}
		}
		if strings.Contains(href, "instagram.com") {
			signals.HasInstagram = true
			if signals.InstagramURL == nil {
				url := href
				signals.InstagramURL = &url
			}
		}
		if strings.Contains(href, "linkedin.com") {
			signals.HasLinkedIn = true
			if signals.LinkedInURL == nil {
				url := href
				signals.LinkedInURL = &url
			}
		}
	})

	if doc.Find(`meta[property="fb:page_id"]`).Length() > 0 {
		signals.HasFacebook = true
	}
}

func detectAnalytics(html string, signals *lead.TechSignals) {
	for _, pattern := range googleAnalyticsPatterns {
		if strings.Contains(html, pattern) {
			signals.HasGoogleAnalytics = true
			break
		}
	}
	for _, pattern := range googleTagManagerPatterns {
		if strings.Contains(html, pattern) {
			signals.HasGoogleTagManager = true
			break
		}
	}
	for _, pattern := range facebookPixelPatterns {
		if strings.Contains(html, pattern) {
			signals.HasFacebookPixel = true
			break
		}
	}
}

func detectCRM(html string, signals *lead.TechSignals) {
	htmlLower := strings.ToLower(html)

	for _, provider := range crmProviders {
		for _, pattern := range provider.patterns {
			if strings.Contains(htmlLower, pattern) {
				name := provider.name
				signals.HasCRMForms = true
				signals.CRMProvider = &name
				return
			}
		}
	}
}

func detectBlog(html string, doc *goquery.Document) bool {
	found := false
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := strings.ToLower(sel.AttrOr("href", ""))
		for _, pattern := range blogPathPatterns {
			if strings.Contains(href, pattern) {
				found = true
				return false
			}
		}
		return true
	})
	if found {
		return true
	}

	htmlLower := strings.ToLower(html)
	return strings.Contains(htmlLower, "wp-content") || strings.Contains(htmlLower, "wordpress")
}
