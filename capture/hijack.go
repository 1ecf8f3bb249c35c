package capture

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// adDomains are well-known ad and tracking hosts. Their widgets rarely render
// in a headless session and leave empty boxes in screenshots.
var adDomains = []string{
	"doubleclick.net",
	"googlesyndication.com",
	"googleadservices.com",
	"google-analytics.com",
	"googletagmanager.com",
	"googletagservices.com",
	"connect.facebook.net",
	"adnxs.com",
	"adsrvr.org",
	"amazon-adsystem.com",
	"criteo.com",
	"criteo.net",
	"outbrain.com",
	"taboola.com",
	"moatads.com",
	"pubmatic.com",
	"rubiconproject.com",
	"scorecardresearch.com",
	"quantserve.com",
	"hotjar.com",
	"mixpanel.com",
	"segment.io",
	"segment.com",
	"ads-twitter.com",
	"chartbeat.com",
	"optimizely.com",
	"media.net",
	"openx.net",
	"casalemedia.com",
	"demdex.net",
	"sharethis.com",
	"addthis.com",
	"consensu.org",
}

// domainSet matches a host or any of its parent domains.
type domainSet struct {
	domains map[string]struct{}
}

func newDomainSet(extra []string) *domainSet {
	d := &domainSet{domains: make(map[string]struct{}, len(adDomains)+len(extra))}
	for _, list := range [][]string{adDomains, extra} {
		for _, host := range list {
			host = strings.ToLower(strings.TrimSpace(host))
			if host != "" {
				d.domains[host] = struct{}{}
			}
		}
	}
	return d
}

// Contains reports whether host (e.g. "pagead2.googlesyndication.com") is
// blocked directly or through a parent domain.
func (d *domainSet) Contains(host string) bool {
	host = strings.ToLower(host)
	for host != "" {
		if _, ok := d.domains[host]; ok {
			return true
		}
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			break
		}
		host = host[idx+1:]
	}
	return false
}

// setupHijack intercepts every request on page and fails those bound for a
// blocked domain. The caller stops the returned router.
func setupHijack(page *rod.Page, blocked *domainSet) *rod.HijackRouter {
	router := page.HijackRequests()

	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if u, err := url.Parse(ctx.Request.URL().String()); err == nil && blocked.Contains(u.Hostname()) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// Run blocks until Stop.
	go router.Run()

	return router
}
