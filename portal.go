package main

import (
	"io"
	"net/url"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/google/uuid"
)

const (
	loginPath         = "/login.html"
	securityCheckPath = "/j_spring_security_check"
	indexPath         = "/index.html"
	logoutPath        = "/cikisSon.html?logout=1"
	deviceLimitPath   = "/maksimumCihazHakkiDolu.html"

	// probeURL answers 204 with an empty body when the client has direct
	// internet access. Any other status means the portal (or something
	// else) intercepted the request.
	probeURL           = "http://clients3.google.com/generate_204"
	probeSuccessStatus = 204

	// loginSubmitValue is the fixed localized submit button value the
	// security-check endpoint expects alongside the credentials.
	loginSubmitValue = "Giriş"
)

// Credentials is the immutable account snapshot supplied at construction.
type Credentials struct {
	Username string
	Password string
}

// LoginOutcome reports a login attempt. NeedsTermination and Success are
// never both true: a device-limit conflict is a recoverable state, not a
// success and not a transport failure.
type LoginOutcome struct {
	Success          bool
	Message          string
	NeedsTermination bool
	ConflictHTML     string
	Quota            *QuotaSnapshot
	Kind             ErrKind
}

// LogoutOutcome reports a logout attempt.
type LogoutOutcome struct {
	Success bool
	Message string
	Kind    ErrKind
}

// StatusOutcome reports a session status check.
type StatusOutcome struct {
	Success bool
	Message string
	Quota   *QuotaSnapshot
	Kind    ErrKind
}

// TerminationOutcome reports a device-limit resolution attempt.
type TerminationOutcome struct {
	Success bool
	Message string
	Rounds  int
	Kind    ErrKind
}

// PortalClient drives one account's session against the portal. All public
// operations are serialized by a single mutex: they share the cookie jar,
// the ViewState token and the loggedIn flag, and the portal tolerates only
// one exchange at a time per session.
type PortalClient struct {
	mu      sync.Mutex
	client  httpClient
	probe   httpClient
	baseURL string
	creds   Credentials
	logger  Logger
	profile *BrowserProfile

	loggedIn  bool
	viewState string
	quota     *QuotaSnapshot
}

// NewPortalClient builds a client for the portal at baseURL (trailing
// slash stripped) with its own cookie jar and probe client.
func NewPortalClient(baseURL string, creds Credentials, logger Logger) (*PortalClient, error) {
	client, err := newPortalHTTPClient()
	if err != nil {
		return nil, err
	}
	probe, err := newProbeHTTPClient()
	if err != nil {
		return nil, err
	}
	return newPortalClient(client, probe, baseURL, creds, logger), nil
}

func newPortalClient(client, probe httpClient, baseURL string, creds Credentials, logger Logger) *PortalClient {
	if logger == nil {
		logger = noopLogger{}
	}
	return &PortalClient{
		client:  client,
		probe:   probe,
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		logger:  logger,
		profile: DefaultProfile,
	}
}

func attemptID() string {
	return uuid.New().String()[:8]
}

// Login authenticates against the portal. See login for the decision tree.
func (c *PortalClient) Login() LoginOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	attempt := attemptID()
	c.logger.Log("[%s] logging in as %s", attempt, c.creds.Username)
	return c.login(attempt, true)
}

// login runs one authentication sequence. allowRecovery permits a single
// terminate-and-retry when the login form bounces back with an
// active-session hint; the retry itself runs with allowRecovery false so
// the recovery can never loop.
func (c *PortalClient) login(attempt string, allowRecovery bool) LoginOutcome {
	// Prime the session cookies. The page itself is ignored; a failure
	// here has no observable effect because the POST below fails the
	// same way if the portal is truly down.
	if _, err := c.getPage(loginPath, ""); err != nil {
		c.logger.Log("[%s] login page priming ignored: %v", attempt, err)
	}

	form := url.Values{}
	form.Set("j_username", c.creds.Username)
	form.Set("j_password", c.creds.Password)
	form.Set("submit", loginSubmitValue)

	page, err := c.postForm(securityCheckPath, form, c.baseURL+loginPath)
	if err != nil {
		kind := transportErrKind(err)
		c.loggedIn = false
		return LoginOutcome{Message: transportMessage(kind), Kind: kind}
	}

	if out, decided := c.evaluateLoginPage(page); decided {
		return out
	}

	// The POST response was ambiguous; the index page tells us where the
	// session actually ended up.
	page, err = c.getPage(indexPath, c.baseURL+loginPath)
	if err != nil {
		kind := transportErrKind(err)
		c.loggedIn = false
		return LoginOutcome{Message: transportMessage(kind), Kind: kind}
	}
	if out, decided := c.evaluateLoginPage(page); decided {
		return out
	}

	if allowRecovery && ClassifyPage(page.body, page.finalURL) == PageLoginForm && hasActiveSessionHint(page.body) {
		c.logger.Log("[%s] another session appears active, trying terminate-and-retry", attempt)
		if err := c.logoutRequest(); err != nil {
			c.logger.Log("[%s] recovery logout ignored: %v", attempt, err)
		}
		out := c.login(attempt, false)
		if out.Success {
			out.Message = "logged in after terminating previous session"
			return out
		}
		if out.NeedsTermination {
			// A device-limit conflict on the retry is still a recoverable
			// state for the caller, not a dead end of the recovery.
			return out
		}
		c.loggedIn = false
		return LoginOutcome{Message: "could not terminate other session", Kind: ErrAmbiguousServerState}
	}

	c.loggedIn = false
	return LoginOutcome{Message: "login state unclear, portal returned an unrecognized page", Kind: ErrAmbiguousServerState}
}

// evaluateLoginPage classifies a page received during login and produces
// the outcome for the three decisive states. decided is false when the
// page settles nothing (ambiguous or still on the login form).
func (c *PortalClient) evaluateLoginPage(page *pageResult) (out LoginOutcome, decided bool) {
	c.observePage(page.body)

	switch ClassifyPage(page.body, page.finalURL) {
	case PageLoginError:
		c.loggedIn = false
		return LoginOutcome{Message: "invalid credentials", Kind: ErrAuthRejected}, true
	case PageDeviceLimit:
		c.loggedIn = false
		return LoginOutcome{
			Message:          "device limit reached, a remote session must be terminated",
			NeedsTermination: true,
			ConflictHTML:     page.body,
			Kind:             ErrDeviceLimit,
		}, true
	case PageDashboard:
		c.loggedIn = true
		c.quota = ExtractQuota(page.body)
		return LoginOutcome{Success: true, Message: "login successful", Quota: c.quota}, true
	}
	return LoginOutcome{}, false
}

// Logout tears down the session. Local state and cookies are reset even if
// the portal answers badly; only a transport-level failure of the request
// itself is reported.
func (c *PortalClient) Logout() LogoutOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.logoutRequest()

	c.client.SetCookieJar(tls_client.NewCookieJar())
	c.loggedIn = false
	c.viewState = ""
	c.quota = nil

	if err != nil {
		kind := transportErrKind(err)
		return LogoutOutcome{Message: transportMessage(kind), Kind: kind}
	}
	return LogoutOutcome{Success: true, Message: "logged out"}
}

// logoutRequest fires the logout endpoint. Callers on best-effort paths
// ignore the returned error by design.
func (c *PortalClient) logoutRequest() error {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+logoutPath, nil)
	if err != nil {
		return err
	}
	req.Header = navigationHeaders(c.profile, c.baseURL+indexPath)

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Status refreshes the session view from the index page.
func (c *PortalClient) Status() StatusOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, err := c.getPage(indexPath, "")
	if err != nil {
		kind := transportErrKind(err)
		c.loggedIn = false
		return StatusOutcome{Message: transportMessage(kind), Kind: kind}
	}

	c.observePage(page.body)
	if ClassifyPage(page.body, page.finalURL) == PageDashboard {
		c.loggedIn = true
		c.quota = ExtractQuota(page.body)
		return StatusOutcome{Success: true, Message: "session active", Quota: c.quota}
	}

	c.loggedIn = false
	c.quota = nil
	return StatusOutcome{Message: "session not active"}
}

// CheckInternet reports whether the device already has direct internet
// access, strictly defined as the probe answering its no-content status.
func (c *PortalClient) CheckInternet() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkInternet()
}

func (c *PortalClient) checkInternet() bool {
	req, err := http.NewRequest(http.MethodGet, probeURL, nil)
	if err != nil {
		return false
	}
	req.Header = http.Header{
		"user-agent": {c.profile.UserAgent},
		"accept":     {"*/*"},
	}

	resp, err := c.probe.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == probeSuccessStatus
}

// HandleDeviceLimit resolves a device-limit conflict by driving the
// portal's confirmation dialog. On success the caller is expected to call
// Login again for a fresh session.
func (c *PortalClient) HandleDeviceLimit(conflictHTML string) TerminationOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	attempt := attemptID()
	c.logger.Log("[%s] resolving device-limit conflict", attempt)
	return c.terminate(conflictHTML, attempt)
}

// observePage refreshes the tracked ViewState token from any page
// received; the token rotates on every server round-trip.
func (c *PortalClient) observePage(body string) {
	if vs, ok := ExtractViewState(body); ok {
		c.viewState = vs
	}
}

type pageResult struct {
	body     string
	finalURL string
	status   int
}

// doRequest executes an HTTP request and logs the URL and status code.
func (c *PortalClient) doRequest(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Log("%s %s -> error: %v", req.Method, req.URL.Path, err)
		return nil, err
	}
	c.logger.Log("%s %s -> %d", req.Method, req.URL.Path, resp.StatusCode)
	return resp, nil
}

func (c *PortalClient) getPage(path, referer string) (*pageResult, error) {
	target := c.baseURL + path
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header = navigationHeaders(c.profile, referer)

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	return &pageResult{
		body:     string(body),
		finalURL: finalRequestURL(resp, target),
		status:   resp.StatusCode,
	}, nil
}

func (c *PortalClient) postForm(path string, form url.Values, referer string) (*pageResult, error) {
	target := c.baseURL + path
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header = formPostHeaders(c.profile, c.baseURL, referer)

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	return &pageResult{
		body:     string(body),
		finalURL: finalRequestURL(resp, target),
		status:   resp.StatusCode,
	}, nil
}

// finalRequestURL is the URL after any redirects were followed.
func finalRequestURL(resp *http.Response, fallback string) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return fallback
}
