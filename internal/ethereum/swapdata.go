package ethereum

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// CommandV3SwapExactIn is the Universal Router command byte for an
// exact-input v3 swap.
const CommandV3SwapExactIn byte = 0x00

var swapInputArgs = buildSwapInputArgs()

func buildSwapInputArgs() abi.Arguments {
	addressT, _ := abi.NewType("address", "", nil)
	uint256T, _ := abi.NewType("uint256", "", nil)
	bytesT, _ := abi.NewType("bytes", "", nil)
	boolT, _ := abi.NewType("bool", "", nil)
	return abi.Arguments{
		{Name: "recipient", Type: addressT},
		{Name: "amountIn", Type: uint256T},
		{Name: "amountOutMin", Type: uint256T},
		{Name: "path", Type: bytesT},
		{Name: "payerIsUser", Type: boolT},
	}
}

// BuildSwapData assembles a deliberately simplified Universal Router
// payload: one V3_SWAP_EXACT_IN command and a single input tuple with an
// EMPTY path and no fee-tier selection. The result is not executable
// on-chain; encoding a real path belongs to a dedicated routing library and
// is out of scope here. Prepare never calls this.
func (s *Swapper) BuildSwapData(recipient common.Address, amountIn, minAmountOut *big.Int) (commands []byte, inputs [][]byte, err error) {
	input, err := swapInputArgs.Pack(recipient, amountIn, minAmountOut, []byte{}, false)
	if err != nil {
		return nil, nil, fmt.Errorf("pack swap input: %w", err)
	}
	return []byte{CommandV3SwapExactIn}, [][]byte{input}, nil
}
