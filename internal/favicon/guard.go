// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package favicon

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
	"syscall"

	"github.com/tomtom215/homenav/internal/models"
)

// Resolver looks up host addresses. *net.Resolver implements it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// reservedPrefixes are blocked in addition to the netip predicates.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("2001:db8::/32"),
	netip.MustParsePrefix("64:ff9b:1::/48"),
}

// Guard rejects URLs that would reach internal hosts.
type Guard struct {
	// BlockedHosts are rejected by name before resolution.
	BlockedHosts map[string]bool
	// Allowed prefixes bypass the address checks.
	Allowed  []netip.Prefix
	Resolver Resolver
}

// NewGuard returns a guard with the default block list. 198.18.0.0/15 is
// allowed because local proxies commonly resolve public names into it.
func NewGuard() *Guard {
	return &Guard{
		BlockedHosts: map[string]bool{
			"localhost":                true,
			"127.0.0.1":                true,
			"0.0.0.0":                  true,
			"::1":                      true,
			"metadata.google.internal": true,
			"169.254.169.254":          true,
			"metadata.azure.com":       true,
		},
		Allowed:  []netip.Prefix{netip.MustParsePrefix("198.18.0.0/15")},
		Resolver: net.DefaultResolver,
	}
}

// Check validates u and every address its host resolves to. Failures wrap
// models.ErrValidation.
func (g *Guard) Check(ctx context.Context, u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q, only http and https are allowed", models.ErrValidation, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: url has no host", models.ErrValidation)
	}
	if g.BlockedHosts[host] {
		return fmt.Errorf("%w: host %q is not allowed", models.ErrValidation, host)
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		return g.checkAddr(addr)
	}

	addrs, err := g.Resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		// Unresolvable hosts fail later at dial time.
		return nil
	}
	for _, addr := range addrs {
		if err := g.checkAddr(addr); err != nil {
			return err
		}
	}
	return nil
}

func (g *Guard) checkAddr(addr netip.Addr) error {
	if !g.AddrAllowed(addr) {
		return fmt.Errorf("%w: address %s is internal or reserved", models.ErrValidation, addr)
	}
	return nil
}

// AddrAllowed reports whether addr may be dialed.
func (g *Guard) AddrAllowed(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range g.Allowed {
		if p.Contains(addr) {
			return true
		}
	}
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsInterfaceLocalMulticast() ||
		addr.IsMulticast() || addr.IsUnspecified() {
		return false
	}
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return false
		}
	}
	return true
}

// dialControl re-checks the connected address so a DNS answer that changes
// between Check and dial cannot reach an internal host.
func (g *Guard) dialControl(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: cannot parse dial address %q", models.ErrValidation, address)
	}
	return g.checkAddr(ap.Addr())
}
