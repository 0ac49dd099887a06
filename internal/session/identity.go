package session

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Port bounds and protocol defaults.
const (
	minPort = 1
	maxPort = 65535

	defaultHTTPPort  = 80
	defaultHTTPSPort = 443
)

// idSeparator joins host and port in a derived device id.
const idSeparator = "_"

// DeriveDeviceID derives the device id from host and port. The id is a
// derived key, never independently assigned, and matches the token the
// plugin hands back at login time.
func DeriveDeviceID(host string, port int) string {
	return fmt.Sprintf("%s%s%d", host, idSeparator, port)
}

// ParseDeviceID splits a derived id back into host and port. The split is on
// the last separator, so ids round-trip unless the host itself contains an
// underscore, a documented edge case, not required to round-trip.
func ParseDeviceID(id string) (host string, port int, err error) {
	i := strings.LastIndex(id, idSeparator)
	if i <= 0 || i == len(id)-1 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidDeviceID, id)
	}
	port, err = strconv.Atoi(id[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidDeviceID, id)
	}
	return id[:i], port, nil
}

// ValidateHost checks that host is non-empty and is either a syntactically
// valid IPv4 address or contains a dot. The dot check is a deliberate
// minimal heuristic for domain names, not full hostname validation.
func ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("%w: host is empty", ErrValidation)
	}
	if ip := net.ParseIP(host); ip != nil && ip.To4() != nil {
		return nil
	}
	if strings.Contains(host, ".") {
		return nil
	}
	return fmt.Errorf("%w: host %q is neither an IPv4 address nor a domain", ErrValidation, host)
}

// NormalizePort returns port unchanged when it is within [1,65535], or the
// protocol default (80 for http, 443 for https) when zero. Out-of-range
// ports fail with ErrValidation; the port is never silently clamped.
func NormalizePort(port int, protocol string) (int, error) {
	if port == 0 {
		if protocol == ProtocolHTTPS {
			return defaultHTTPSPort, nil
		}
		return defaultHTTPPort, nil
	}
	if port < minPort || port > maxPort {
		return 0, fmt.Errorf("%w: port %d out of range [%d,%d]", ErrValidation, port, minPort, maxPort)
	}
	return port, nil
}
