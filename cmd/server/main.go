package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mvetten/uniprep/internal/api"
	"github.com/mvetten/uniprep/internal/chains"
	"github.com/mvetten/uniprep/internal/config"
	"github.com/mvetten/uniprep/internal/db"
	"github.com/mvetten/uniprep/internal/ethereum"
	"github.com/mvetten/uniprep/internal/external"
	"github.com/mvetten/uniprep/internal/notifications"
)

const banner = `
╔══════════════════════════════════════╗
║     UniPrep Swap Preparation v0.1    ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Contract registry: fail fast on unsupported chains.
	contracts, err := chains.ForChain(cfg.ChainID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[CHAIN] %v (supported: %v)\n", err, chains.Supported())
		os.Exit(1)
	}

	// Database
	fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
	pool, err := db.Connect(cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		pool.Close()
		fmt.Println("[DB] Connection pool closed")
	}()

	if err := db.TestConnection(pool); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Test query failed: %v\n", err)
		os.Exit(1)
	}

	// Chain client + swap preparation client
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

	// Notifications
	notify := notifications.NewSender(cfg.WebhookURL, cfg.ServiceName)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(pool, swapper, notify, cfg.APIPort, cfg.APIKey, cfg.CORSAllowOrigin, cfg.ChainID)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Println("\nService started successfully")

	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
