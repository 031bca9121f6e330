// Command prepare runs a single swap preparation end to end: token lookups,
// balance check, Permit2 approval, and a quote for reference. It never
// broadcasts a swap transaction.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mvetten/uniprep/internal/chains"
	"github.com/mvetten/uniprep/internal/config"
	"github.com/mvetten/uniprep/internal/ethereum"
	"github.com/mvetten/uniprep/internal/external"
	"github.com/mvetten/uniprep/internal/notifications"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	contracts, err := chains.ForChain(cfg.ChainID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[CHAIN] %v (supported: %v)\n", err, chains.Supported())
		os.Exit(1)
	}

	client, err := ethereum.NewClient(cfg.RPCEndpoint, cfg.PrivateKey, cfg.ChainID, ethereum.Options{
		GasLimit:       cfg.GasLimit,
		GasMultiplier:  cfg.GasMultiplier,
		ReceiptPoll:    time.Duration(cfg.ReceiptPollMs) * time.Millisecond,
		ReceiptTimeout: time.Duration(cfg.ReceiptTimeout) * time.Second,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[CHAIN] Client init failed: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()
	fmt.Printf("[CHAIN] Wallet: %s\n", client.WalletAddress().Hex())

	quoter := external.NewRoutingClient(cfg.RoutingAPIURL)
	swapper, err := ethereum.NewSwapper(client, contracts, quoter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[CHAIN] Swapper init failed: %v\n", err)
		os.Exit(1)
	}

	notify := notifications.NewSender(cfg.WebhookURL, cfg.ServiceName)

	ctx := context.Background()

	result, err := swapper.Prepare(ctx, ethereum.PrepareRequest{
		TokenIn:         cfg.DefaultTokenIn,
		TokenOut:        cfg.DefaultTokenOut,
		AmountIn:        cfg.DefaultAmountIn,
		SlippagePercent: cfg.DefaultSlippagePercent,
	})
	if err != nil {
		notify.PreparationDone(cfg.DefaultTokenIn, cfg.DefaultTokenOut, cfg.DefaultAmountIn, false)
		fmt.Fprintf(os.Stderr, "\nPreparation failed: %v\n", err)
		os.Exit(1)
	}

	if result.ApprovalTx != nil {
		notify.ApprovalSubmitted(result.TokenIn.Symbol, result.ApprovalTx.Hex())
	}
	notify.PreparationDone(result.TokenIn.Symbol, result.TokenOut.Symbol, cfg.DefaultAmountIn, true)

	// Reference quote for the prepared amount. Failure here does not undo
	// the preparation; the allowance is already in place.
	if quote, err := swapper.Quote(ctx, cfg.DefaultTokenIn, cfg.DefaultTokenOut, result.AmountRaw); err == nil {
		if out, ok := quote["quote"]; ok {
			fmt.Printf("\nIndicative quote: %v %s for %s %s\n",
				out, result.TokenOut.Symbol, result.AmountRaw, result.TokenIn.Symbol)
		}
	}

	fmt.Println("\nPreparation completed successfully")
}
