package domain

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// NewRunError classifies an error produced while driving the surface into a
// structured RunError.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}

	msg := err.Error()

	if errors.Is(err, context.DeadlineExceeded) {
		return &RunError{Kind: RunErrorTimeout, Message: msg}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &RunError{Kind: RunErrorTimeout, Message: msg}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &RunError{Kind: RunErrorDNS, Message: msg}
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return &RunError{Kind: RunErrorConn, Message: msg}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &RunError{Kind: RunErrorConn, Message: msg}
	}

	var oe *OpError
	if errors.As(err, &oe) && oe.Kind == KindSession {
		return &RunError{Kind: RunErrorSurface, Message: msg}
	}

	// http.Client wraps url errors with plain strings in some paths.
	if strings.Contains(msg, "connection refused") {
		return &RunError{Kind: RunErrorConn, Message: msg}
	}

	return &RunError{Kind: RunErrorUnknown, Message: msg}
}
