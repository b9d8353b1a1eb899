package url

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// BaseURL() builds the root URL of the NSO northbound API in the form
// scheme://host:port, using "https" when ssl is set and "http" otherwise.
// IPv6 literals are wrapped in brackets.
func BaseURL(host string, port int, ssl bool) string {
	scheme := "http"
	if ssl {
		scheme = "https"
	}
	host = strings.Trim(strings.TrimSpace(host), "[]")
	uri := &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
	return uri.String()
}

func Sanitize(uri string) (string, error) {
	// URL sanitanization for host argument
	parsedURI, err := url.ParseRequestURI(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse URI: %w", err)
	}
	// Remove any trailing slashes
	parsedURI.Path = strings.TrimSuffix(parsedURI.Path, "/")
	// Collapse any doubled slashes
	parsedURI.Path = strings.ReplaceAll(parsedURI.Path, "//", "/")
	return parsedURI.String(), nil
}

// SplitHost() accepts either a bare host or a full URL (as sometimes written
// in settings files) and returns the host, the port (0 when absent) and
// whether the scheme asked for TLS.
func SplitHost(raw string) (string, int, bool, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		return strings.Trim(raw, "[]"), 0, false, nil
	}
	sanitized, err := Sanitize(raw)
	if err != nil {
		return "", 0, false, err
	}
	parsed, err := url.Parse(sanitized)
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to parse URI: %w", err)
	}
	port := 0
	if p := parsed.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return "", 0, false, fmt.Errorf("invalid port %q: %w", p, err)
		}
	}
	return parsed.Hostname(), port, parsed.Scheme == "https", nil
}
