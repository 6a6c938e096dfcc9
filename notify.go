package main

// Logger is the one-way diagnostics sink the client writes to. The core
// never depends on where the lines end up.
type Logger interface {
	Log(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Log(format string, args ...any) {}

// Notifier delivers user-facing events (login results, quota warnings,
// device-limit prompts). Failures to deliver are nobody's problem here.
type Notifier interface {
	Notify(title, message string)
}

// logNotifier routes notifications into the logger. The desktop
// notification frontend is a separate concern and plugs in here.
type logNotifier struct {
	logger Logger
}

func NewLogNotifier(logger Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(title, message string) {
	n.logger.Log("%s: %s", title, message)
}

// CredentialProvider exposes the active account. The snapshot is immutable
// for the client's lifetime; switching accounts means a new client.
type CredentialProvider interface {
	Credentials() Credentials
}

type staticCredentials struct {
	creds Credentials
}

func NewStaticCredentials(username, password string) CredentialProvider {
	return staticCredentials{creds: Credentials{Username: username, Password: password}}
}

func (s staticCredentials) Credentials() Credentials {
	return s.creds
}

// ConnectivityMonitor answers whether the device is currently associated
// with the portal's network. The core never calls network APIs directly.
type ConnectivityMonitor interface {
	OnTargetNetwork() bool
	NetworkName() string
}

// assumeAssociated is the default monitor: it reports the configured
// network as always associated, leaving SSID detection to platform code.
type assumeAssociated struct {
	name string
}

func NewAssumeAssociatedMonitor(name string) ConnectivityMonitor {
	return assumeAssociated{name: name}
}

func (m assumeAssociated) OnTargetNetwork() bool { return true }

func (m assumeAssociated) NetworkName() string { return m.name }
