package networks

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/yl2chen/cidranger"
)

var ErrInvalidNetwork = errors.New("invalid network")

var (
	mu     sync.RWMutex
	ranger = cidranger.NewPCTrieRanger()
)

// Init replaces the set of trusted networks. Entries may be CIDRs or bare
// addresses, which are treated as single hosts.
func Init(cidrs []string) error {
	r := cidranger.NewPCTrieRanger()
	for _, cidr := range cidrs {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		network, err := parseNetwork(cidr)
		if err != nil {
			return err
		}
		if err := r.Insert(cidranger.NewBasicRangerEntry(*network)); err != nil {
			return err
		}
	}

	mu.Lock()
	ranger = r
	mu.Unlock()
	return nil
}

func parseNetwork(s string) (*net.IPNet, error) {
	if !strings.Contains(s, "/") {
		ip := net.ParseIP(s)
		if ip == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, s)
		}
		if ip4 := ip.To4(); ip4 != nil {
			return &net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}, nil
		}
		return &net.IPNet{IP: ip, Mask: net.CIDRMask(128, 128)}, nil
	}
	_, network, err := net.ParseCIDR(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, s)
	}
	return network, nil
}

// IsTrusted reports whether address (with or without a port) falls in a
// trusted network.
func IsTrusted(address string) bool {
	if host, _, err := net.SplitHostPort(address); err == nil {
		address = host
	}
	ip := net.ParseIP(address)
	if ip == nil {
		return false
	}

	mu.RLock()
	defer mu.RUnlock()
	ok, err := ranger.Contains(ip)
	return err == nil && ok
}
