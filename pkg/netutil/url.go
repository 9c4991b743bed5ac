package netutil

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

const maxDomainNameSize = 253

// ValidateHttpUrl validates a URL for an HTTP scheme. The host must be an IP
// address or a valid domain name, and an explicit port must be in range.
// Nothing is resolved or fetched.
func ValidateHttpUrl(value string, requireSecureConnection bool) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return err
	}

	if requireSecureConnection && parsed.Scheme != "https" {
		return errors.New("url scheme must be https")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}

	if len(parsed.Host) == 0 {
		return errors.New("host component missing")
	}

	if port := parsed.Port(); len(port) > 0 {
		if err := ValidatePort(port); err != nil {
			return err
		}
	}

	hostname := parsed.Hostname()
	if net.ParseIP(hostname) != nil {
		return nil
	}
	if err := ValidateDomainName(hostname); err != nil {
		return errors.Wrap(err, "host is not a valid domain name")
	}

	return nil
}

// ValidatePort validates the string value as a TCP port
func ValidatePort(value string) error {
	port, err := strconv.ParseUint(value, 10, 16)
	if err != nil || port == 0 {
		return errors.Errorf("invalid port %q", value)
	}
	return nil
}

// ValidateDomainName validates the string value as a domain name. A single
// trailing dot, marking a fully qualified name, is accepted.
func ValidateDomainName(value string) error {
	value = strings.TrimSuffix(value, ".")
	if len(value) == 0 {
		return errors.New("domain name is empty")
	}
	if len(value) > maxDomainNameSize {
		return errors.New("domain name length exceeds limit")
	}
	if _, err := idna.Registration.ToASCII(value); err != nil {
		return errors.Wrap(err, "domain name is invalid")
	}
	return nil
}
