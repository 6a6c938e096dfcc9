package main

import (
	"errors"
	"testing"
)

type fakeNetError struct {
	timeout bool
}

func (e fakeNetError) Error() string   { return "fake net error" }
func (e fakeNetError) Timeout() bool   { return e.timeout }
func (e fakeNetError) Temporary() bool { return false }

func TestTransportErrKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrKind
	}{
		{"nil", nil, ErrNone},
		{"net timeout", fakeNetError{timeout: true}, ErrTransportTimeout},
		{"net non-timeout", fakeNetError{}, ErrTransportOther},
		{"connection refused", errors.New("dial tcp 10.0.0.1:443: connection refused"), ErrTransportUnreachable},
		{"dns failure", errors.New("lookup wifi.gsb.gov.tr: no such host"), ErrTransportUnreachable},
		{"io timeout string", errors.New("read tcp: i/o timeout"), ErrTransportTimeout},
		{"client timeout string", errors.New("Get \"https://x\": Client.Timeout exceeded"), ErrTransportTimeout},
		{"unrecognized", errors.New("something else broke"), ErrTransportOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transportErrKind(tt.err); got != tt.want {
				t.Errorf("transportErrKind(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
