package pkg

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ReadUserIP returns the client IP, preferring proxy headers set by nginx.
func ReadUserIP(r *http.Request) (string, error) {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		// first entry is the original client
		ipAddr = strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-For"), ",")[0])
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}

	if net.ParseIP(ipAddr) == nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}
	return ipAddr, nil
}
