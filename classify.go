package main

import "strings"

// PageClass identifies which server state a rendered page represents.
type PageClass int

const (
	PageUnclassified PageClass = iota
	PageDashboard
	PageLoginError
	PageDeviceLimit
	PageLoginForm
)

func (c PageClass) String() string {
	switch c {
	case PageDashboard:
		return "dashboard"
	case PageLoginError:
		return "login-error"
	case PageDeviceLimit:
		return "device-limit"
	case PageLoginForm:
		return "login-form"
	}
	return "unclassified"
}

// Marker tables for page classification. All entries are lowercase; the
// input is lowercased before matching. Extend these when the portal
// rewords its markup rather than touching ClassifyPage.
var (
	// loginErrorURLMarkers match the redirect target of a rejected login
	// (Spring Security appends a login_error query to the login page).
	loginErrorURLMarkers = []string{
		"login_error",
	}

	// deviceLimitMarkers match the dedicated "maximum device count
	// reached" page, by URL segment or body content.
	deviceLimitMarkers = []string{
		"maksimumcihazhakkidolu",
	}

	// dashboardMarkers match the authenticated landing page: session and
	// quota panels plus the remote-session terminate control.
	dashboardMarkers = []string{
		"oturum bilgileri",
		"kota bilgileri",
		"toplam kalan kota",
		"oturumu sonlandır",
		"cikisson.html",
	}

	// loginFormMarkers must all be present for the page to count as the
	// login form still being shown.
	loginFormMarkers = []string{
		"j_username",
		"j_password",
	}

	// activeSessionHints suggest the login form came back because another
	// device already holds a session for this account.
	activeSessionHints = []string{
		"başka bir oturum",
		"aktif oturum",
		"zaten bir oturum",
		"already logged in",
	}
)

// ClassifyPage decides which server state a response represents from its
// body and the final URL after redirects. Order matters: login-error and
// device-limit are checked before dashboard and login-form because their
// pages can carry markers of the others too.
func ClassifyPage(html, finalURL string) PageClass {
	body := strings.ToLower(html)
	target := strings.ToLower(finalURL)

	for _, marker := range loginErrorURLMarkers {
		if strings.Contains(target, marker) {
			return PageLoginError
		}
	}

	for _, marker := range deviceLimitMarkers {
		if strings.Contains(target, marker) || strings.Contains(body, marker) {
			return PageDeviceLimit
		}
	}

	for _, marker := range dashboardMarkers {
		if strings.Contains(body, marker) {
			return PageDashboard
		}
	}

	if containsAll(body, loginFormMarkers) {
		return PageLoginForm
	}

	return PageUnclassified
}

// hasActiveSessionHint reports whether a login-form page carries language
// suggesting another session is already active for the account.
func hasActiveSessionHint(html string) bool {
	body := strings.ToLower(html)
	for _, hint := range activeSessionHints {
		if strings.Contains(body, hint) {
			return true
		}
	}
	return false
}

func containsAll(s string, markers []string) bool {
	for _, m := range markers {
		if !strings.Contains(s, m) {
			return false
		}
	}
	return true
}
