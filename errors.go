package main

import (
	"errors"
	"net"
	"strings"
)

// ErrKind classifies an operation failure. Outcomes carry a kind instead of
// a raw error so callers can branch without string matching.
type ErrKind int

const (
	ErrNone ErrKind = iota

	// Transport failures, distinguished so the user-facing message can say
	// "no connection" vs "portal too slow" vs "something else broke".
	ErrTransportUnreachable
	ErrTransportTimeout
	ErrTransportOther

	// ErrAuthRejected is an explicit login error from the portal.
	ErrAuthRejected

	// ErrDeviceLimit is not a failure: the account hit its concurrent
	// device cap and a remote session must be terminated first. It is
	// carried in outcomes alongside NeedsTermination.
	ErrDeviceLimit

	// ErrAmbiguousServerState means the classifier could not decide what
	// page the portal returned.
	ErrAmbiguousServerState

	// Termination driver failures.
	ErrTerminationExhausted
	ErrTerminationTransportFailure
)

func (k ErrKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrTransportUnreachable:
		return "transport-unreachable"
	case ErrTransportTimeout:
		return "transport-timeout"
	case ErrTransportOther:
		return "transport-other"
	case ErrAuthRejected:
		return "auth-rejected"
	case ErrDeviceLimit:
		return "device-limit"
	case ErrAmbiguousServerState:
		return "ambiguous-server-state"
	case ErrTerminationExhausted:
		return "termination-exhausted"
	case ErrTerminationTransportFailure:
		return "termination-transport-failure"
	}
	return "unknown"
}

// unreachablePatterns contains error message substrings that indicate the
// portal (or the network path to it) is down, as opposed to slow.
var unreachablePatterns = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"no route to host",
	"transport connection broken",
	"use of closed network connection",
}

// timeoutPatterns contains error message substrings that indicate a timeout
// when the error does not implement net.Error.
var timeoutPatterns = []string{
	"i/o timeout",
	"context deadline exceeded",
	"TLS handshake timeout",
	"Client.Timeout",
}

// transportErrKind maps a transport-level error onto its kind.
func transportErrKind(err error) ErrKind {
	if err == nil {
		return ErrNone
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTransportTimeout
	}

	errStr := err.Error()
	for _, pattern := range timeoutPatterns {
		if strings.Contains(errStr, pattern) {
			return ErrTransportTimeout
		}
	}
	for _, pattern := range unreachablePatterns {
		if strings.Contains(errStr, pattern) {
			return ErrTransportUnreachable
		}
	}
	return ErrTransportOther
}

// transportMessage renders the user-facing message for a transport failure.
func transportMessage(kind ErrKind) string {
	switch kind {
	case ErrTransportTimeout:
		return "portal did not respond in time"
	case ErrTransportUnreachable:
		return "portal unreachable, check the network connection"
	default:
		return "request to portal failed"
	}
}
