package face

import (
	"fmt"
	"os"
)

// NewTransport builds the concrete Transport variant named by
// ci.Scheme, grounded on the teacher's std/engine/factory.go.
func NewTransport(ci ConnectionInfo) (Transport, error) {
	switch ci.Scheme {
	case "unix":
		return NewUnixTransport(ci), nil
	case "tcp":
		return NewTCPTransport(ci), nil
	case "ws":
		return NewWebSocketTransport(ci), nil
	default:
		return nil, fmt.Errorf("unsupported connection scheme: %q", ci.Scheme)
	}
}

// DefaultGetConnectionInfo resolves a platform-appropriate forwarder
// endpoint (spec.md §4.1, §6): a Unix socket at /var/run/nfd.sock or
// /tmp/.ndnd.sock if either exists, else a TCP loopback connection on the
// default NFD port 6363.
func DefaultGetConnectionInfo() ConnectionInfo {
	for _, candidate := range []string{"/var/run/nfd.sock", "/tmp/.ndnd.sock"} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return ConnectionInfo{Scheme: "unix", Path: candidate, Local: true}
		}
	}
	return ConnectionInfo{Scheme: "tcp", Host: "127.0.0.1", Port: 6363, Local: true}
}
