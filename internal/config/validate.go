package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ValidateHTTPURL checks that s is an absolute http or https URL.
func ValidateHTTPURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}

// ValidateOptionalHTTPURL checks a URL only if non-empty.
func ValidateOptionalHTTPURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return ValidateHTTPURL(s)
}

// ValidateHostPort checks that s is a valid host:port address.
func ValidateHostPort(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("address is required")
	}
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("invalid address (expected host:port): %w", err)
	}
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	return ValidatePort(port)
}

// ValidatePort checks that s is a valid port number (1-65535).
func ValidatePort(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("port is required")
	}
	port := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return fmt.Errorf("port must be a number")
		}
		port = port*10 + int(c-'0')
		if port > 65535 {
			break
		}
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

// ValidateLogLevel accepts the zap level names.
func ValidateLogLevel(s string) error {
	if _, err := zapcore.ParseLevel(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("unknown log level %q", s)
	}
	return nil
}

// ValidateOptionalDir checks that path, if set, is an existing directory.
func ValidateOptionalDir(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory not found: %s", path)
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}
	return nil
}
