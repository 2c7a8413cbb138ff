// Package chain holds the supported network directory and address helpers.
package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnknownNetwork indicates a chain id outside the supported directory.
var ErrUnknownNetwork = errors.New("chain: unknown network")

// Network pairs a chain id with the slug used by the Morpho app.
type Network struct {
	ID   int    `json:"id"`
	Slug string `json:"network"`
}

var networks = []Network{
	{ID: 1, Slug: "ethereum"},
	{ID: 8453, Slug: "base"},
	{ID: 57073, Slug: "ink"},
	{ID: 137, Slug: "polygon"},
	{ID: 130, Slug: "unichain"},
	{ID: 10, Slug: "optimism"},
	{ID: 747474, Slug: "katana"},
	{ID: 42161, Slug: "arbitrum"},
	{ID: 239, Slug: "tac"},
	{ID: 999, Slug: "hyperliquid"},
}

// Networks returns the supported networks in display order.
func Networks() []Network {
	out := make([]Network, len(networks))
	copy(out, networks)
	return out
}

// NetworkByID looks up a network by chain id.
func NetworkByID(id int) (Network, bool) {
	for _, n := range networks {
		if n.ID == id {
			return n, true
		}
	}
	return Network{}, false
}

// Slug returns the slug for id or an ErrUnknownNetwork error.
func Slug(id int) (string, error) {
	n, ok := NetworkByID(id)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownNetwork, id)
	}
	return n.Slug, nil
}

// LooksLikeAddress reports whether s is a 0x-prefixed 20-byte hex address.
func LooksLikeAddress(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 42 || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return false
	}
	return common.IsHexAddress(s)
}

// Checksum returns the EIP-55 form of a valid address, or s unchanged.
func Checksum(s string) string {
	if !LooksLikeAddress(s) {
		return s
	}
	return common.HexToAddress(strings.TrimSpace(s)).Hex()
}

// Normalize returns the lowercase form used for cache keys.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
