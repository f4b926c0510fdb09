package mail

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedProvider is returned when a mailbox address or
// provider name does not map to a known IMAP host. This is a terminal
// configuration failure, never retried.
var ErrUnsupportedProvider = errors.New("unsupported email provider")

// Provider identifies a supported email provider. The set is closed:
// connection parameters exist only for the listed providers, and
// anything else is rejected before a connection is attempted.
type Provider string

const (
	ProviderOutlook Provider = "outlook"
	ProviderGmail   Provider = "gmail"
	ProviderYahoo   Provider = "yahoo"
	ProviderAOL     Provider = "aol"
	ProviderICloud  Provider = "icloud"
)

// imapHosts maps each supported provider to its SSL/TLS IMAP endpoint.
// Extend by adding rows.
var imapHosts = map[Provider]string{
	ProviderOutlook: "outlook.office365.com",
	ProviderGmail:   "imap.gmail.com",
	ProviderYahoo:   "imap.mail.yahoo.com",
	ProviderAOL:     "imap.aol.com",
	ProviderICloud:  "imap.mail.me.com",
}

// addressDomains maps mailbox address domains to providers.
var addressDomains = map[string]Provider{
	"outlook.com": ProviderOutlook,
	"hotmail.com": ProviderOutlook,
	"live.com":    ProviderOutlook,
	"gmail.com":   ProviderGmail,
	"yahoo.com":   ProviderYahoo,
	"aol.com":     ProviderAOL,
	"icloud.com":  ProviderICloud,
	"me.com":      ProviderICloud,
}

// ParseProvider validates a provider name.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := imapHosts[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
	}
	return p, nil
}

// ProviderForAddress resolves a mailbox address to its provider by
// domain.
func ProviderForAddress(address string) (Provider, error) {
	_, domain, found := strings.Cut(address, "@")
	if !found {
		return "", fmt.Errorf("%w: malformed address %q", ErrUnsupportedProvider, address)
	}

	p, ok := addressDomains[strings.ToLower(domain)]
	if !ok {
		return "", fmt.Errorf("%w: domain %q", ErrUnsupportedProvider, domain)
	}
	return p, nil
}

// Host returns the provider's IMAP endpoint as host:port. Connections
// always use the SSL/TLS port; there is no plaintext fallback.
func (p Provider) Host() string {
	return imapHosts[p] + ":993"
}
