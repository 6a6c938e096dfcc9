package main

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
)

const (
	// maxTerminationRounds bounds the dialog-driving loop. The portal
	// usually resolves in two rounds (open confirm dialog, click yes).
	maxTerminationRounds = 5

	// terminationRoundDelay gives the server time to commit session
	// teardown before the next scan.
	terminationRoundDelay = time.Second

	// redirectMarker in a partial response means the server navigated
	// away from the device-limit page: the conflict is gone.
	redirectMarker = "<redirect"
)

// controlRule extracts candidate control identifiers from device-limit
// HTML. Rules are evaluated in priority order; within one rule, candidates
// come back in document order. The first never-clicked identifier from the
// highest-priority matching rule wins — ties never break by document
// position across rules.
type controlRule struct {
	name    string
	extract func(html string) []string
}

var terminationRules = []controlRule{
	{"terminate-label", func(h string) []string {
		return controlsContainingLabel(h, "oturumu sonlandır", "sonlandır", "end session", "terminate")
	}},
	{"confirm-dialog-opener", func(h string) []string {
		return tagsMatching(h, func(tag string) bool {
			return strings.Contains(tag, "onclick=") &&
				strings.Contains(tag, "confirm") && strings.Contains(tag, ".show")
		})
	}},
	{"confirm-label", func(h string) []string {
		return controlsContainingLabel(h, "onayla", "evet")
	}},
	{"accept-label", func(h string) []string {
		return controlsWithExactLabel(h, "ok", "yes", "tamam")
	}},
	{"confirm-yes-class", func(h string) []string {
		return tagsMatching(h, func(tag string) bool {
			return strings.Contains(tag, "ui-confirmdialog-yes")
		})
	}},
	{"ajax-source", func(h string) []string {
		var ids []string
		for _, m := range ajaxSourcePattern.FindAllStringSubmatch(h, -1) {
			ids = append(ids, m[1])
		}
		return ids
	}},
}

var (
	clickableElementPattern = regexp.MustCompile(`(?is)<(?:button|a)\b[^>]*\bid="([^"]+)"[^>]*>(.*?)</(?:button|a)>`)
	inputElementPattern     = regexp.MustCompile(`(?is)<input\b[^>]*\bid="([^"]+)"[^>]*>`)
	valueAttrPattern        = regexp.MustCompile(`(?i)\bvalue="([^"]*)"`)
	idTagPattern            = regexp.MustCompile(`(?is)<[a-z][^>]*\bid="([^"]+)"[^>]*>`)
	ajaxSourcePattern       = regexp.MustCompile(`(?i)PrimeFaces\.ab\(\{\s*s\s*:\s*["']([^"']+)["']`)
	updateBlockPattern      = regexp.MustCompile(`(?is)<update id="([^"]*)"[^>]*>\s*<!\[CDATA\[(.*?)\]\]>\s*</update>`)
)

// controlsContainingLabel returns ids of buttons/links whose text, or
// inputs whose value attribute, contains any of the labels.
func controlsContainingLabel(html string, labels ...string) []string {
	var ids []string
	for _, m := range clickableElementPattern.FindAllStringSubmatch(html, -1) {
		text := strings.ToLower(flattenHTML(m[2]))
		if containsAny(text, labels) {
			ids = append(ids, m[1])
		}
	}
	for _, m := range inputElementPattern.FindAllStringSubmatch(html, -1) {
		if vm := valueAttrPattern.FindStringSubmatch(m[0]); vm != nil {
			if containsAny(strings.ToLower(vm[1]), labels) {
				ids = append(ids, m[1])
			}
		}
	}
	return ids
}

// controlsWithExactLabel is the strict variant for short generic labels
// like "ok", where substring matching would catch unrelated words.
func controlsWithExactLabel(html string, labels ...string) []string {
	var ids []string
	for _, m := range clickableElementPattern.FindAllStringSubmatch(html, -1) {
		text := strings.TrimSpace(strings.ToLower(flattenHTML(m[2])))
		for _, label := range labels {
			if text == label {
				ids = append(ids, m[1])
				break
			}
		}
	}
	for _, m := range inputElementPattern.FindAllStringSubmatch(html, -1) {
		if vm := valueAttrPattern.FindStringSubmatch(m[0]); vm != nil {
			value := strings.TrimSpace(strings.ToLower(vm[1]))
			for _, label := range labels {
				if value == label {
					ids = append(ids, m[1])
					break
				}
			}
		}
	}
	return ids
}

// tagsMatching returns ids of start tags for which pred holds. The tag text
// is lowercased before the predicate runs.
func tagsMatching(html string, pred func(tag string) bool) []string {
	var ids []string
	for _, m := range idTagPattern.FindAllStringSubmatch(html, -1) {
		if pred(strings.ToLower(m[0])) {
			ids = append(ids, m[1])
		}
	}
	return ids
}

func containsAny(s string, labels []string) bool {
	for _, label := range labels {
		if strings.Contains(s, label) {
			return true
		}
	}
	return false
}

// findTerminationControl scans the current HTML against the rule table and
// returns the first eligible (never clicked) control identifier.
func findTerminationControl(html string, clicked map[string]bool) (id, rule string) {
	for _, r := range terminationRules {
		for _, candidate := range r.extract(html) {
			if !clicked[candidate] {
				return candidate, r.name
			}
		}
	}
	return "", ""
}

// formScope derives the enclosing form identifier from a control id: the
// portion before the first JSF namespace separator.
func formScope(controlID string) string {
	if idx := strings.Index(controlID, ":"); idx > 0 {
		return controlID[:idx]
	}
	return controlID
}

// extractPartialFragment returns the re-rendered markup from a partial
// response: the first CDATA update block that is not the ViewState field.
func extractPartialFragment(body string) (string, bool) {
	for _, m := range updateBlockPattern.FindAllStringSubmatch(body, -1) {
		if strings.Contains(m[1], "javax.faces.ViewState") {
			continue
		}
		return m[2], true
	}
	return "", false
}

// terminate drives the device-limit confirmation dialog until the conflict
// resolves or the round budget runs out. Within one invocation a control is
// never clicked twice, even if later rounds re-render it.
func (c *PortalClient) terminate(conflictHTML, attempt string) TerminationOutcome {
	html := conflictHTML
	clicked := make(map[string]bool)

	viewState, ok := ExtractViewState(html)
	if !ok {
		// Conflict pages normally embed their own token; fall back to the
		// last one observed by the orchestrator.
		viewState = c.viewState
	}

	rounds := 0
	resolved := false

	for rounds < maxTerminationRounds {
		if viewState == "" {
			c.logger.Log("[%s] termination: no viewstate token, giving up", attempt)
			return TerminationOutcome{
				Message: "could not terminate remote session: missing state token",
				Kind:    ErrTerminationExhausted,
				Rounds:  rounds,
			}
		}

		controlID, ruleName := findTerminationControl(html, clicked)
		if controlID == "" {
			if rounds > 0 {
				resolved = true
			}
			break
		}
		clicked[controlID] = true

		c.logger.Log("[%s] termination round %d: clicking %s (rule: %s)", attempt, rounds+1, controlID, ruleName)
		body, err := c.postPartialUpdate(controlID, formScope(controlID), viewState)
		if err != nil {
			kind := transportErrKind(err)
			c.logger.Log("[%s] termination round %d failed: %v", attempt, rounds+1, err)
			return TerminationOutcome{
				Message: "termination request failed: " + transportMessage(kind),
				Kind:    ErrTerminationTransportFailure,
				Rounds:  rounds,
			}
		}
		rounds++

		if vs, ok := ExtractViewState(body); ok {
			viewState = vs
			c.viewState = vs
		}

		if fragment, ok := extractPartialFragment(body); ok {
			html = fragment
		} else if strings.Contains(body, redirectMarker) {
			resolved = true
			break
		} else {
			// Defensive fallback: some responses come back as full pages.
			html = body
		}

		time.Sleep(terminationRoundDelay)
	}

	if !resolved {
		message := "no terminate control found on device-limit page"
		if rounds > 0 {
			message = "remote session still active after all termination rounds"
		}
		return TerminationOutcome{
			Message: message,
			Kind:    ErrTerminationExhausted,
			Rounds:  rounds,
		}
	}

	// The old session cookies reference the torn-down server session;
	// start from a clean jar and log out best-effort before re-login.
	c.client.SetCookieJar(tls_client.NewCookieJar())
	if err := c.logoutRequest(); err != nil {
		c.logger.Log("[%s] post-termination logout ignored: %v", attempt, err)
	}

	return TerminationOutcome{
		Success: true,
		Message: "remote session terminated",
		Rounds:  rounds,
	}
}

// postPartialUpdate issues one JSF partial-ajax "click" against the
// device-limit endpoint and returns the raw response body.
func (c *PortalClient) postPartialUpdate(controlID, formID, viewState string) (string, error) {
	endpoint := c.baseURL + deviceLimitPath

	form := url.Values{}
	form.Set("javax.faces.partial.ajax", "true")
	form.Set("javax.faces.source", controlID)
	form.Set("javax.faces.partial.execute", "@all")
	form.Set("javax.faces.partial.render", "@all")
	// The event pair marks this as a component click; without it the JSF
	// lifecycle treats the post as a plain form submit and fires nothing.
	form.Set("javax.faces.partial.event", "click")
	form.Set("javax.faces.behavior.event", "action")
	form.Set(controlID, controlID)
	form.Set(formID, formID)
	form.Set("javax.faces.ViewState", viewState)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header = ajaxPostHeaders(c.profile, c.baseURL, endpoint)

	resp, err := c.doRequest(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := readResponseBody(resp)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
