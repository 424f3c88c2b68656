// Package group registers the available curve adapters under stable names for configuration and CLI use.
package group

import (
	"fmt"
	"sort"

	"github.com/stealth/brainkey"
	"github.com/stealth/brainkey/group/nist"
	"github.com/stealth/brainkey/group/r255"
	"github.com/stealth/brainkey/group/secp256k1"
)

// DefaultName is the group used when none is configured. The original opmsg scheme generates on secp521r1.
const DefaultName = "p521"

var registry = map[string]func() brainkey.Group{
	"p256":         func() brainkey.Group { return nist.P256() },
	"p384":         func() brainkey.Group { return nist.P384() },
	"p521":         func() brainkey.Group { return nist.P521() },
	"secp256k1":    func() brainkey.Group { return secp256k1.New() },
	"ristretto255": func() brainkey.Group { return r255.New() },
}

// ByName returns the group registered under name.
func ByName(name string) (brainkey.Group, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("group: unknown group %q", name)
	}
	return f(), nil
}

// Names returns the registered group names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
