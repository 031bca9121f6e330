package chains

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestForChain_Mainnet(t *testing.T) {
	c, err := ForChain(1)
	if err != nil {
		t.Fatalf("ForChain(1): %v", err)
	}
	if c.UniversalRouter != common.HexToAddress("0x3fC91A3afd70395Cd496C647d5a6CC9D4B2b7FAD") {
		t.Fatalf("unexpected router: %s", c.UniversalRouter.Hex())
	}
	if c.Permit2 != common.HexToAddress("0x000000000022D473030F116dDEE9F6B43aC78BA3") {
		t.Fatalf("unexpected permit2: %s", c.Permit2.Hex())
	}
	if c.WrappedNative != common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2") {
		t.Fatalf("unexpected wrapped native: %s", c.WrappedNative.Hex())
	}
}

func TestForChain_Polygon(t *testing.T) {
	c, err := ForChain(137)
	if err != nil {
		t.Fatalf("ForChain(137): %v", err)
	}
	// Permit2 is deployed at the same address on both chains.
	mainnet, _ := ForChain(1)
	if c.Permit2 != mainnet.Permit2 {
		t.Fatal("permit2 address should match mainnet deployment")
	}
	if c.WrappedNative == mainnet.WrappedNative {
		t.Fatal("polygon wrapped native should differ from mainnet WETH")
	}
}

func TestForChain_Unknown(t *testing.T) {
	if _, err := ForChain(56); err == nil {
		t.Fatal("expected error for unregistered chain")
	}
}

func TestSupported(t *testing.T) {
	ids := Supported()
	if len(ids) != 2 {
		t.Fatalf("expected 2 supported chains, got %d", len(ids))
	}
	seen := map[int64]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[1] || !seen[137] {
		t.Fatalf("expected chains 1 and 137, got %v", ids)
	}
}
