package netutil

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

// Hostnames longer than this can't be encoded in DNS
const maxHostnameLength = 253

// ValidateHttpUrl validates a user supplied link. An explicit http or https
// scheme and a valid domain name are required. Nothing is fetched or
// resolved.
func ValidateHttpUrl(value string, requireSecureConnection bool) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return err
	}

	scheme := strings.ToLower(parsed.Scheme)
	if requireSecureConnection && scheme != "https" {
		return errors.New("url scheme must be https")
	}

	if scheme != "http" && scheme != "https" {
		return errors.New("url scheme must be http or https")
	}

	if len(parsed.Host) == 0 {
		return errors.New("host component missing")
	} else if err := validateHostname(parsed.Hostname()); err != nil {
		return errors.Wrap(err, "host is not a valid domain name")
	}

	if parsed.User != nil {
		return errors.New("url cannot contain credentials")
	}

	return nil
}

func validateHostname(host string) error {
	switch {
	case host == "":
		return errors.New("hostname is empty")
	case len(host) > maxHostnameLength:
		return errors.Errorf("hostname exceeds %d characters", maxHostnameLength)
	}
	_, err := idna.Registration.ToASCII(host)
	return err
}
