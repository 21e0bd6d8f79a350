// Package site normalizes user supplied website identifiers.
//
// Users type sites the way they see them in a browser: with or without a
// scheme, with "www.", with paths, in upper case or as Unicode domain
// names. Normalize turns all of those into the single lowercase ASCII host
// name used as the catalog key.
package site

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

var (
	// ErrEmptySite is returned when no site was entered.
	ErrEmptySite = errors.New("need to enter a website first")

	// ErrInvalidSite is returned when the input is not a usable host name.
	ErrInvalidSite = errors.New("invalid website")
)

// maxHostLength is the DNS limit on a full host name.
const maxHostLength = 253

var profile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.Transitional(false),
)

// Normalize converts input into a canonical site identifier.
//
// It strips the scheme, user info, port, path, query and fragment,
// lowercases the host, converts internationalized names to ASCII and
// removes a leading "www.". The result must end in a known public suffix
// and have at least one label in front of it.
func Normalize(input string) (string, error) {
	host := strings.TrimSpace(input)
	if host == "" {
		return "", ErrEmptySite
	}

	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")

	if host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidSite, input)
	}
	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return "", fmt.Errorf("%w: %q is an IP address", ErrInvalidSite, input)
	}

	ascii, err := profile.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidSite, input, err)
	}
	ascii = strings.TrimPrefix(ascii, "www.")

	if len(ascii) > maxHostLength || !strings.Contains(ascii, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSite, input)
	}

	suffix, icann := publicsuffix.PublicSuffix(ascii)
	if !icann && !strings.Contains(suffix, ".") {
		return "", fmt.Errorf("%w: %q has an unknown top-level domain", ErrInvalidSite, input)
	}
	if suffix == ascii {
		return "", fmt.Errorf("%w: %q is a public suffix", ErrInvalidSite, input)
	}
	return ascii, nil
}

// Registrable returns the registrable domain (eTLD+1) of a normalized host,
// for example "maps.google.ca" becomes "google.ca".
func Registrable(host string) (string, error) {
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSite, err)
	}
	return d, nil
}

// Display converts a normalized ASCII host back to its Unicode form.
// Hosts that fail conversion are returned unchanged.
func Display(host string) string {
	u, err := profile.ToUnicode(host)
	if err != nil {
		return host
	}
	return u
}
