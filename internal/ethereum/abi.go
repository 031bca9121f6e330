package ethereum

import (
	"io"
	"strings"
)

// Minimal ABIs for ERC20 tokens and the Uniswap Universal Router: only the
// methods this service touches. The router's execute is declared for
// completeness but never invoked: the preparation flow stops short of the
// actual swap.

func mustERC20ABI() io.Reader {
	return strings.NewReader(`[
		{
			"name": "decimals",
			"type": "function",
			"stateMutability": "view",
			"inputs": [],
			"outputs": [{"name": "", "type": "uint8"}]
		},
		{
			"name": "symbol",
			"type": "function",
			"stateMutability": "view",
			"inputs": [],
			"outputs": [{"name": "", "type": "string"}]
		},
		{
			"name": "balanceOf",
			"type": "function",
			"stateMutability": "view",
			"inputs": [{"name": "_owner", "type": "address"}],
			"outputs": [{"name": "balance", "type": "uint256"}]
		},
		{
			"name": "allowance",
			"type": "function",
			"stateMutability": "view",
			"inputs": [
				{"name": "_owner",   "type": "address"},
				{"name": "_spender", "type": "address"}
			],
			"outputs": [{"name": "", "type": "uint256"}]
		},
		{
			"name": "approve",
			"type": "function",
			"stateMutability": "nonpayable",
			"inputs": [
				{"name": "_spender", "type": "address"},
				{"name": "_value",   "type": "uint256"}
			],
			"outputs": [{"name": "", "type": "bool"}]
		}
	]`)
}

func mustRouterABI() io.Reader {
	return strings.NewReader(`[
		{
			"name": "execute",
			"type": "function",
			"stateMutability": "payable",
			"inputs": [
				{"name": "commands", "type": "bytes"},
				{"name": "inputs",   "type": "bytes[]"},
				{"name": "deadline", "type": "uint256"}
			],
			"outputs": []
		}
	]`)
}
