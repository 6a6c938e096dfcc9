package main

import "regexp"

// The JSF ViewState token rotates on every server round-trip and must
// accompany every state-changing POST. It shows up in two forms: inside a
// CDATA-wrapped <update> block of a partial-ajax response, or as a hidden
// form field on a full page. The CDATA form wins when both are present
// because it is the fresher one.
var (
	viewStateCDATAPattern = regexp.MustCompile(
		`(?is)<update[^>]*id="[^"]*javax\.faces\.ViewState[^"]*"[^>]*>\s*<!\[CDATA\[(.*?)\]\]>`)
	viewStateHiddenPattern = regexp.MustCompile(
		`(?is)name="javax\.faces\.ViewState"[^>]*\bvalue="([^"]*)"`)
)

// ExtractViewState pulls the current ViewState token out of a page or
// partial response. Must be re-run on every page received: a stale token is
// rejected server-side in a way indistinguishable from other failures.
func ExtractViewState(html string) (string, bool) {
	if m := viewStateCDATAPattern.FindStringSubmatch(html); m != nil {
		return m[1], true
	}
	if m := viewStateHiddenPattern.FindStringSubmatch(html); m != nil {
		return m[1], true
	}
	return "", false
}
