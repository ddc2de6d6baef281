// Package network holds the ad-network catalog: the ordered list of build targets,
// their per-network capabilities, and the app store links injected into each bundle.
package network

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateNetwork is returned when a catalog lists an identifier twice.
	ErrDuplicateNetwork = errors.New("duplicate network identifier")

	// ErrUnknownNetwork is returned when an identifier is not in the catalog.
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrEmptyNetwork is returned for a blank identifier.
	ErrEmptyNetwork = errors.New("network identifier cannot be empty")
)

// DefaultNetworks is the active catalog in selection order.
// chartboost is disabled and deliberately absent.
var DefaultNetworks = []string{
	"development",
	"aarki",
	"adcolony",
	"adikteev",
	"applovin",
	"bigabid",
	"facebook",
	"google",
	"ironsource",
	"liftoff",
	"mintegral",
	"moloco",
	"smadex",
	"tencent",
	"tiktok",
	"unity",
	"vungle",
}

// Catalog is an immutable ordered set of network identifiers.
// Position i (0-based) is offered to the user as number i+1.
type Catalog struct {
	ids   []string
	index map[string]int
}

// NewCatalog builds a catalog from ids, preserving order.
func NewCatalog(ids []string) (*Catalog, error) {
	c := &Catalog{
		ids:   make([]string, 0, len(ids)),
		index: make(map[string]int, len(ids)),
	}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, ErrEmptyNetwork
		}
		if _, ok := c.index[id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNetwork, id)
		}
		c.index[id] = len(c.ids)
		c.ids = append(c.ids, id)
	}
	return c, nil
}

// DefaultCatalog returns the catalog built from DefaultNetworks.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultNetworks)
	if err != nil {
		panic(err) // DefaultNetworks is static
	}
	return c
}

// IDs returns a copy of the identifiers in catalog order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Len returns the number of networks.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// At returns the identifier at a 1-based position.
func (c *Catalog) At(pos int) (string, bool) {
	if pos < 1 || pos > len(c.ids) {
		return "", false
	}
	return c.ids[pos-1], true
}

// Contains reports whether id is in the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Position returns the 1-based position of id, or 0.
func (c *Catalog) Position(id string) int {
	i, ok := c.index[id]
	if !ok {
		return 0
	}
	return i + 1
}
