package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amerello/lead-radar/app/lead"
)

// Probe failure classes. The lifecycle treats both the same way: no signals
// are stored and the lead stays un-analyzed.
var (
	ErrTimeout     = errors.New("probe timed out")
	ErrUnreachable = errors.New("website unreachable")
)

// Prober extracts a TechSignals snapshot from a website URL.
type Prober interface {
	Probe(ctx context.Context, url string) (lead.TechSignals, error)
}

// HTTPProber fetches the landing page once and runs every detection over
// the response body.
type HTTPProber struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

var _ Prober = (*HTTPProber)(nil)

func NewHTTPProber(httpClient *http.Client, userAgent string, timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPProber{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (p *HTTPProber) Probe(ctx context.Context, rawurl string) (lead.TechSignals, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if !strings.HasPrefix(rawurl, "http://") && !strings.HasPrefix(rawurl, "https://") {
		rawurl = "https://" + rawurl
	}

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", rawurl, nil)
	if err != nil {
		return lead.TechSignals{}, fmt.Errorf("%w: invalid URL %q: %v", ErrUnreachable, rawurl, err)
	}

	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-AR,es;q=0.9,en;q=0.8")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return lead.TechSignals{}, fmt.Errorf("%w: %s", ErrTimeout, rawurl)
		}
		return lead.TechSignals{}, fmt.Errorf("%w: %s: %v", ErrUnreachable, rawurl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return lead.TechSignals{}, fmt.Errorf("%w: %s returned HTTP %d", ErrUnreachable, rawurl, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return lead.TechSignals{}, fmt.Errorf("%w: %s", ErrTimeout, rawurl)
		}
		return lead.TechSignals{}, fmt.Errorf("%w: failed to read %s: %v", ErrUnreachable, rawurl, err)
	}

	html := string(body)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return lead.TechSignals{}, fmt.Errorf("failed to parse HTML from %s: %w", rawurl, err)
	}

	signals := lead.TechSignals{
		HasWebsite: true,
		// Redirects count: judge the scheme the site actually serves on.
		HasSSL: resp.Request.URL.Scheme == "https",
	}

	detectChatWidget(html, &signals)
	signals.HasWhatsAppButton = detectWhatsApp(html)
	signals.HasContactForm = detectContactForm(doc)
	detectSocialMedia(doc, &signals)
	detectAnalytics(html, &signals)
	detectCRM(html, &signals)
	signals.HasBlog = detectBlog(html, doc)

	return signals, nil
}
