package main

import (
	"io"

	http "github.com/bogdanfinn/fhttp"
)

// PseudoHeaderOrder is the standard HTTP/2 pseudo-header order for all requests.
var PseudoHeaderOrder = []string{
	":method",
	":authority",
	":scheme",
	":path",
}

// readResponseBody decompresses and reads the full response body.
// Caller should defer resp.Body.Close() before calling this.
func readResponseBody(resp *http.Response) ([]byte, error) {
	body := http.DecompressBody(resp)
	defer body.Close()
	return io.ReadAll(body)
}

// navigationHeaders returns browser-like headers for a top-level page load.
func navigationHeaders(p *BrowserProfile, referer string) http.Header {
	h := http.Header{
		"upgrade-insecure-requests": {"1"},
		"user-agent":                {p.UserAgent},
		"accept":                    {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"},
		"sec-fetch-site":            {"same-origin"},
		"sec-fetch-mode":            {"navigate"},
		"sec-fetch-dest":            {"document"},
		"sec-ch-ua":                 {p.SecChUa},
		"sec-ch-ua-mobile":          {"?0"},
		"sec-ch-ua-platform":        {p.Platform},
		"accept-encoding":           {"gzip, deflate, br"},
		"accept-language":           {"tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"},
		http.HeaderOrderKey: {
			"upgrade-insecure-requests",
			"user-agent",
			"accept",
			"sec-fetch-site",
			"sec-fetch-mode",
			"sec-fetch-dest",
			"sec-ch-ua",
			"sec-ch-ua-mobile",
			"sec-ch-ua-platform",
			"referer",
			"accept-encoding",
			"accept-language",
			"cookie",
		},
		http.PHeaderOrderKey: PseudoHeaderOrder,
	}
	if referer != "" {
		h["referer"] = []string{referer}
	}
	return h
}

// formPostHeaders returns headers for a full-page form submission.
func formPostHeaders(p *BrowserProfile, origin, referer string) http.Header {
	h := http.Header{
		"content-type":              {"application/x-www-form-urlencoded"},
		"origin":                    {origin},
		"upgrade-insecure-requests": {"1"},
		"user-agent":                {p.UserAgent},
		"accept":                    {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"},
		"sec-fetch-site":            {"same-origin"},
		"sec-fetch-mode":            {"navigate"},
		"sec-fetch-dest":            {"document"},
		"sec-ch-ua":                 {p.SecChUa},
		"sec-ch-ua-mobile":          {"?0"},
		"sec-ch-ua-platform":        {p.Platform},
		"accept-encoding":           {"gzip, deflate, br"},
		"accept-language":           {"tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"},
		http.HeaderOrderKey: {
			"content-length",
			"content-type",
			"origin",
			"upgrade-insecure-requests",
			"user-agent",
			"accept",
			"sec-fetch-site",
			"sec-fetch-mode",
			"sec-fetch-dest",
			"sec-ch-ua",
			"sec-ch-ua-mobile",
			"sec-ch-ua-platform",
			"referer",
			"accept-encoding",
			"accept-language",
			"cookie",
		},
		http.PHeaderOrderKey: PseudoHeaderOrder,
	}
	if referer != "" {
		h["referer"] = []string{referer}
	}
	return h
}

// ajaxPostHeaders returns headers for a JSF partial-page-update POST.
// Faces-Request marks the request as partial/ajax for the server-side
// lifecycle; without it the portal renders a full page instead.
func ajaxPostHeaders(p *BrowserProfile, origin, referer string) http.Header {
	return http.Header{
		"faces-request":      {"partial/ajax"},
		"x-requested-with":   {"XMLHttpRequest"},
		"content-type":       {"application/x-www-form-urlencoded; charset=UTF-8"},
		"accept":             {"application/xml, text/xml, */*; q=0.01"},
		"origin":             {origin},
		"referer":            {referer},
		"user-agent":         {p.UserAgent},
		"sec-fetch-site":     {"same-origin"},
		"sec-fetch-mode":     {"cors"},
		"sec-fetch-dest":     {"empty"},
		"sec-ch-ua":          {p.SecChUa},
		"sec-ch-ua-mobile":   {"?0"},
		"sec-ch-ua-platform": {p.Platform},
		"accept-encoding":    {"gzip, deflate, br"},
		"accept-language":    {"tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"},
		http.HeaderOrderKey: {
			"content-length",
			"faces-request",
			"x-requested-with",
			"content-type",
			"accept",
			"origin",
			"referer",
			"user-agent",
			"sec-fetch-site",
			"sec-fetch-mode",
			"sec-fetch-dest",
			"sec-ch-ua",
			"sec-ch-ua-mobile",
			"sec-ch-ua-platform",
			"accept-encoding",
			"accept-language",
			"cookie",
		},
		http.PHeaderOrderKey: PseudoHeaderOrder,
	}
}
