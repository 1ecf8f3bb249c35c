// Package probe performs a cheap HTTP GET against a capture target before a
// browser is spent on it. A probe confirms the site answers, follows
// redirects, and reads the page title and description for the run log.
package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	tls "github.com/refraction-networking/utls"
	"github.com/use-agent/portfolio/models"
	"golang.org/x/net/html"
)

const maxBody = 2 << 20

// chromeH1Spec is a Chrome ClientHello with ALPN restricted to http/1.1 so
// net/http never receives an h2 connection it cannot speak.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// Result describes what a target answered.
type Result struct {
	StatusCode  int           `json:"status_code"`
	FinalURL    string        `json:"final_url"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Prober issues probe requests with a Chrome TLS fingerprint.
type Prober struct {
	client    *http.Client
	userAgent string
}

// New creates a Prober. proxy may be empty, or an http(s) proxy URL.
func New(userAgent, proxy string) *Prober {
	transport := &http.Transport{
		DialTLSContext:    dialTLSChrome,
		ForceAttemptHTTP2: false,
	}
	if proxy != "" {
		if u, err := url.Parse(proxy); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Prober{
		userAgent: userAgent,
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("probe: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}

// Probe fetches rawURL. Transport failures and HTTP error statuses come back
// as NAVIGATION_FAILED, an expired ctx as CAPTURE_TIMEOUT.
func (p *Prober) Probe(ctx context.Context, rawURL string) (*Result, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, models.NewCaptureError(models.ErrCodeInvalidInput, "unusable target URL", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, models.Categorize(err, models.ErrCodeNavigation, "probe request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, models.NewCaptureError(models.ErrCodeNavigation,
			fmt.Sprintf("target answered HTTP %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, models.Categorize(err, models.ErrCodeNavigation, "probe body read failed")
	}

	res := &Result{
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		Duration:   time.Since(start),
	}
	if isHTMLContentType(resp.Header.Get("Content-Type")) {
		res.Title = extractTitle(string(body))
		res.Description = extractDescription(string(body))
	}
	return res, nil
}

func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

// extractTitle returns the text of the first <title> element.
func extractTitle(htmlStr string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlStr))
	inTitle := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(tokenizer.Text()))
			}
		case html.EndTagToken:
			if inTitle {
				return ""
			}
		}
	}
}

// extractDescription prefers og:description over the plain meta description.
func extractDescription(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}
	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
