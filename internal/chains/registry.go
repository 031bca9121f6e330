package chains

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Contracts holds the per-chain addresses the preparation flow touches:
// the Universal Router, the Permit2 allowance manager, and the wrapped
// native token.
type Contracts struct {
	UniversalRouter common.Address
	Permit2         common.Address
	WrappedNative   common.Address
}

// registry is loaded once and never mutated.
var registry = map[int64]Contracts{
	1: { // Ethereum Mainnet
		UniversalRouter: common.HexToAddress("0x3fC91A3afd70395Cd496C647d5a6CC9D4B2b7FAD"),
		Permit2:         common.HexToAddress("0x000000000022D473030F116dDEE9F6B43aC78BA3"),
		WrappedNative:   common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), // WETH
	},
	137: { // Polygon
		UniversalRouter: common.HexToAddress("0xec7BE89e9d109e7e3Fec59c222CF297125FEFda2"),
		Permit2:         common.HexToAddress("0x000000000022D473030F116dDEE9F6B43aC78BA3"),
		WrappedNative:   common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"), // WMATIC
	},
}

// ForChain returns the contract set for a chain ID, or an error for
// chains the service has no addresses for.
func ForChain(chainID int64) (Contracts, error) {
	c, ok := registry[chainID]
	if !ok {
		return Contracts{}, fmt.Errorf("no contract registry for chain %d", chainID)
	}
	return c, nil
}

// Supported lists the chain IDs present in the registry.
func Supported() []int64 {
	out := make([]int64, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	return out
}
