package main

import (
	"net/url"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// BrowserProfile bundles a TLS client profile with its corresponding browser headers.
type BrowserProfile struct {
	TLSProfile profiles.ClientProfile
	UserAgent  string
	SecChUa    string
	Platform   string
}

// DefaultProfile is the default browser profile used for new clients.
var DefaultProfile = &BrowserProfile{
	TLSProfile: profiles.Chrome_133,
	UserAgent:  "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	SecChUa:    `"Not(A:Brand";v="99", "Google Chrome";v="133", "Chromium";v="133"`,
	Platform:   `"macOS"`,
}

const (
	// portalTimeoutSeconds bounds every exchange with the portal itself.
	portalTimeoutSeconds = 30

	// probeTimeoutSeconds bounds the unauthenticated reachability probe.
	probeTimeoutSeconds = 5
)

// httpClient is the subset of tls_client.HttpClient the portal code needs.
// Narrowing the interface here keeps tests off the network.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
	GetCookies(u *url.URL) []*http.Cookie
	SetCookies(u *url.URL, cookies []*http.Cookie)
	GetCookieJar() http.CookieJar
	SetCookieJar(jar http.CookieJar)
}

// newPortalHTTPClient builds the client used for all portal traffic.
// The portal serves a self-signed certificate, so verification is disabled
// for this client instance only. Redirects are followed because the final
// URL after a login POST is classification input.
func newPortalHTTPClient() (tls_client.HttpClient, error) {
	jar := tls_client.NewCookieJar()
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(portalTimeoutSeconds),
		tls_client.WithClientProfile(DefaultProfile.TLSProfile),
		tls_client.WithCookieJar(jar),
		tls_client.WithInsecureSkipVerify(),
	}

	return tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
}

// newProbeHTTPClient builds the short-timeout client for the generate_204
// reachability check. No cookie jar and no redirect following: an
// intercepted probe shows up as a non-204 status, which is the signal.
func newProbeHTTPClient() (tls_client.HttpClient, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(probeTimeoutSeconds),
		tls_client.WithClientProfile(DefaultProfile.TLSProfile),
		tls_client.WithNotFollowRedirects(),
	}

	return tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
}
