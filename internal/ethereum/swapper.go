package ethereum

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mvetten/uniprep/internal/chains"
)

// QuoteProvider abstracts the routing-API dependency so Swapper can be
// tested without the live quote service.
type QuoteProvider interface {
	Quote(ctx context.Context, tokenIn, tokenOut string, amountRaw *big.Int) (map[string]any, error)
}

// TokenInfo is derived from on-chain state on every call; nothing here is
// cached or persisted.
type TokenInfo struct {
	Address      common.Address `json:"address"`
	Symbol       string         `json:"symbol"`
	Decimals     uint8          `json:"decimals"`
	Balance      *big.Int       `json:"balance"`
	HumanBalance float64        `json:"humanBalance"`
}

type PrepareRequest struct {
	TokenIn         string
	TokenOut        string
	AmountIn        float64
	SlippagePercent float64
}

type PrepareResult struct {
	TokenIn    *TokenInfo
	TokenOut   *TokenInfo
	AmountRaw  *big.Int
	ApprovalTx *common.Hash // nil when the existing allowance already covered the amount
}

// Swapper prepares ERC20 swaps against the Uniswap Universal Router: it
// reads token metadata, grants Permit2 allowances, and fetches quotes.
// It never broadcasts a swap transaction.
//
// Not safe for concurrent use; see Client.
type Swapper struct {
	client    *Client
	contracts chains.Contracts
	quoter    QuoteProvider
	erc20ABI  abi.ABI
	routerABI abi.ABI
}

func NewSwapper(client *Client, contracts chains.Contracts, quoter QuoteProvider) (*Swapper, error) {
	eABI, err := abi.JSON(mustERC20ABI())
	if err != nil {
		return nil, fmt.Errorf("parse ERC20 ABI: %w", err)
	}
	rABI, err := abi.JSON(mustRouterABI())
	if err != nil {
		return nil, fmt.Errorf("parse router ABI: %w", err)
	}
	return &Swapper{
		client:    client,
		contracts: contracts,
		quoter:    quoter,
		erc20ABI:  eABI,
		routerABI: rABI,
	}, nil
}

func (s *Swapper) WalletAddress() common.Address { return s.client.WalletAddress() }

// TokenInfo queries a token contract for symbol, decimals, and the wallet's
// balance. A malformed address is the only input error; anything the chain
// returns is wrapped as ErrContractCall.
func (s *Swapper) TokenInfo(ctx context.Context, tokenAddress string) (*TokenInfo, error) {
	if !common.IsHexAddress(tokenAddress) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, tokenAddress)
	}
	token := common.HexToAddress(tokenAddress)

	symbol, err := s.callSymbol(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: symbol of %s: %v", ErrContractCall, token.Hex(), err)
	}
	decimals, err := s.callDecimals(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: decimals of %s: %v", ErrContractCall, token.Hex(), err)
	}
	balance, err := s.callBalanceOf(ctx, token, s.client.WalletAddress())
	if err != nil {
		return nil, fmt.Errorf("%w: balanceOf of %s: %v", ErrContractCall, token.Hex(), err)
	}

	return &TokenInfo{
		Address:      token,
		Symbol:       symbol,
		Decimals:     decimals,
		Balance:      balance,
		HumanBalance: FromRawAmount(balance, decimals),
	}, nil
}

// Approve makes sure Permit2 may move at least amount of the given token.
// If the current allowance already covers it, no transaction is sent and
// submitted is false. Otherwise an approval for exactly amount is signed,
// broadcast, and waited on; a status-0 receipt is an ErrApproval.
func (s *Swapper) Approve(ctx context.Context, tokenAddress string, amount *big.Int) (txHash common.Hash, submitted bool, err error) {
	if !common.IsHexAddress(tokenAddress) {
		return common.Hash{}, false, fmt.Errorf("%w: %q", ErrInvalidAddress, tokenAddress)
	}
	token := common.HexToAddress(tokenAddress)
	spender := s.contracts.Permit2

	current, err := s.callAllowance(ctx, token, s.client.WalletAddress(), spender)
	if err != nil {
		return common.Hash{}, false, fmt.Errorf("%w: allowance of %s: %v", ErrContractCall, token.Hex(), err)
	}

	if current.Cmp(amount) >= 0 {
		fmt.Printf("[SWAP] Allowance already sufficient: %s\n", current.String())
		return common.Hash{}, false, nil
	}

	data, err := s.erc20ABI.Pack("approve", spender, amount)
	if err != nil {
		return common.Hash{}, false, fmt.Errorf("%w: pack approve: %v", ErrTransaction, err)
	}

	hash, err := s.client.SignAndSend(ctx, token, big.NewInt(0), data)
	if err != nil {
		return common.Hash{}, false, fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	fmt.Printf("[SWAP] Approval tx submitted: %s\n", hash.Hex())

	receipt, err := s.client.WaitMined(ctx, hash)
	if err != nil {
		return hash, true, fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	if receipt.Status != 1 {
		return hash, true, fmt.Errorf("%w: receipt status 0 for tx %s", ErrApproval, hash.Hex())
	}

	fmt.Printf("[SWAP] Approval confirmed: %s\n", hash.Hex())
	return hash, true, nil
}

// Quote delegates to the routing API for an exact-input v2/v3 quote.
func (s *Swapper) Quote(ctx context.Context, tokenIn, tokenOut string, amountRaw *big.Int) (map[string]any, error) {
	if !common.IsHexAddress(tokenIn) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, tokenIn)
	}
	if !common.IsHexAddress(tokenOut) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, tokenOut)
	}
	if s.quoter == nil {
		return nil, fmt.Errorf("%w: no quote provider configured", ErrQuoteRequest)
	}
	body, err := s.quoter.Quote(ctx, tokenIn, tokenOut, amountRaw)
	if err != nil {
		fmt.Printf("[SWAP] Quote failed: %v\n", err)
		return nil, fmt.Errorf("%w: %v", ErrQuoteRequest, err)
	}
	return body, nil
}

// Prepare runs the full preparation pipeline: token lookups, fixed-point
// conversion, balance check, and Permit2 approval. It stops there: no swap
// transaction is ever built or broadcast by this method.
func (s *Swapper) Prepare(ctx context.Context, req PrepareRequest) (*PrepareResult, error) {
	fmt.Println("\n=== Preparing swap ===")
	fmt.Printf("Token in:  %s\n", req.TokenIn)
	fmt.Printf("Token out: %s\n", req.TokenOut)
	fmt.Printf("Amount:    %f\n", req.AmountIn)
	fmt.Printf("Slippage:  %.2f%%\n", req.SlippagePercent)

	tokenIn, err := s.TokenInfo(ctx, req.TokenIn)
	if err != nil {
		fmt.Printf("[SWAP] Token in lookup failed: %v\n", err)
		return nil, err
	}
	tokenOut, err := s.TokenInfo(ctx, req.TokenOut)
	if err != nil {
		fmt.Printf("[SWAP] Token out lookup failed: %v\n", err)
		return nil, err
	}

	fmt.Printf("Token in:  %s (balance: %.6f)\n", tokenIn.Symbol, tokenIn.HumanBalance)
	fmt.Printf("Token out: %s (balance: %.6f)\n", tokenOut.Symbol, tokenOut.HumanBalance)

	amountRaw := ToRawAmount(req.AmountIn, tokenIn.Decimals)

	if tokenIn.Balance.Cmp(amountRaw) < 0 {
		err := fmt.Errorf("%w: have %s, need %s %s",
			ErrInsufficientBalance, tokenIn.Balance.String(), amountRaw.String(), tokenIn.Symbol)
		fmt.Printf("[SWAP] %v\n", err)
		return nil, err
	}

	approvalTx, submitted, err := s.Approve(ctx, req.TokenIn, amountRaw)
	if err != nil {
		fmt.Printf("[SWAP] Approval failed: %v\n", err)
		return nil, err
	}

	fmt.Println("\n[SWAP] WARNING: preparation only, no swap transaction is sent.")
	fmt.Println("[SWAP] Router command encoding here is illustrative; a production")
	fmt.Println("[SWAP] swap needs a dedicated path-encoding library and routing SDK.")

	result := &PrepareResult{
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountRaw: amountRaw,
	}
	if submitted {
		result.ApprovalTx = &approvalTx
	}
	return result, nil
}

// --- raw eth_call wrappers ---

func (s *Swapper) callSymbol(ctx context.Context, token common.Address) (string, error) {
	data, err := s.erc20ABI.Pack("symbol")
	if err != nil {
		return "", err
	}
	raw, err := s.client.CallContract(ctx, token, data)
	if err != nil {
		return "", err
	}
	out, err := s.erc20ABI.Unpack("symbol", raw)
	if err != nil {
		return "", err
	}
	return out[0].(string), nil
}

func (s *Swapper) callDecimals(ctx context.Context, token common.Address) (uint8, error) {
	data, err := s.erc20ABI.Pack("decimals")
	if err != nil {
		return 0, err
	}
	raw, err := s.client.CallContract(ctx, token, data)
	if err != nil {
		return 0, err
	}
	out, err := s.erc20ABI.Unpack("decimals", raw)
	if err != nil {
		return 0, err
	}
	return out[0].(uint8), nil
}

func (s *Swapper) callBalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	data, err := s.erc20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, err
	}
	raw, err := s.client.CallContract(ctx, token, data)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

func (s *Swapper) callAllowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	data, err := s.erc20ABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	raw, err := s.client.CallContract(ctx, token, data)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

// --- fixed-point helpers ---

// ToRawAmount converts a human-readable amount into the token's smallest
// unit, truncating toward zero so a preparation can never spend more than
// the caller asked for.
func ToRawAmount(amount float64, decimals uint8) *big.Int {
	f := new(big.Float).Mul(
		new(big.Float).SetFloat64(amount),
		new(big.Float).SetFloat64(math.Pow10(int(decimals))),
	)
	i, _ := f.Int(nil)
	return i
}

// FromRawAmount converts a raw integer balance back to a human-readable float.
func FromRawAmount(raw *big.Int, decimals uint8) float64 {
	divisor := math.Pow10(int(decimals))
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(raw), new(big.Float).SetFloat64(divisor)).Float64()
	return f
}
