package validation

import (
	"net"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var blockedHostnames = map[string]bool{
	"localhost":             true,
	"localhost.localdomain": true,
	"ip6-localhost":         true,
}

// publicHost rejects links whose host is a literal internal address.
// Hostnames are not resolved; links are rendered for readers, never fetched.
var publicHost = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return validation.NewError("validation_url_parse", "must be a valid URL")
	}
	return checkHost(u.Hostname())
})

func checkHost(host string) error {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return validation.NewError("validation_url_host", "must include a host")
	}
	if blockedHostnames[host] || strings.HasSuffix(host, ".localhost") {
		return validation.NewError("validation_url_internal", "must not point at localhost")
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return nil
	}

	switch {
	case ip.IsLoopback():
		return validation.NewError("validation_url_internal", "must not point at a loopback address")
	case ip.IsPrivate():
		return validation.NewError("validation_url_internal", "must not point at a private network address")
	case ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast():
		return validation.NewError("validation_url_internal", "must not point at a link-local address")
	case ip.IsUnspecified(), ip.IsMulticast():
		return validation.NewError("validation_url_internal", "must be a routable address")
	}
	return nil
}
