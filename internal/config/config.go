package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Secrets (from .env)
	PrivateKey      string
	RPCEndpoint     string
	WebhookURL      string
	ServiceName     string
	APIKey          string
	CORSAllowOrigin string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Blockchain
	ChainID        int64
	RoutingAPIURL  string
	GasLimit       int
	GasMultiplier  float64
	ReceiptTimeout int // seconds
	ReceiptPollMs  int

	// Preparation defaults
	DefaultSlippagePercent float64
	DefaultTokenIn         string
	DefaultTokenOut        string
	DefaultAmountIn        float64

	// API
	APIPort int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Secrets
		PrivateKey:      envStr("PRIVATE_KEY", ""),
		RPCEndpoint:     envStr("RPC_ENDPOINT", ""),
		WebhookURL:      envStr("WEBHOOK_URL", ""),
		ServiceName:     envStr("SERVICE_NAME", "UniPrep"),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		// Database
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "uniprep"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		// Blockchain
		ChainID:        int64(envInt("CHAIN_ID", 1)),
		RoutingAPIURL:  envStr("ROUTING_API_URL", "https://api.uniswap.org/v1/quote"),
		GasLimit:       envInt("GAS_LIMIT", 100000),
		GasMultiplier:  envFloat("GAS_MULTIPLIER", 1.2),
		ReceiptTimeout: envInt("RECEIPT_TIMEOUT_SECONDS", 180),
		ReceiptPollMs:  envInt("RECEIPT_POLL_MS", 2000),

		// Preparation defaults
		DefaultSlippagePercent: envFloat("DEFAULT_SLIPPAGE_PERCENT", 0.5),
		DefaultTokenIn:         envStr("DEFAULT_TOKEN_IN", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		DefaultTokenOut:        envStr("DEFAULT_TOKEN_OUT", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		DefaultAmountIn:        envFloat("DEFAULT_AMOUNT_IN", 100),

		// API
		APIPort: envInt("API_PORT", 3001),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.PrivateKey == "" {
		errs = append(errs, "PRIVATE_KEY is required")
	}
	if c.RPCEndpoint == "" {
		errs = append(errs, "RPC_ENDPOINT is required")
	}
	if c.DefaultSlippagePercent < 0 || c.DefaultSlippagePercent > 50 {
		errs = append(errs, "DEFAULT_SLIPPAGE_PERCENT must be between 0 and 50")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set, REST API has no authentication")
	}
	if c.WebhookURL == "" {
		fmt.Println("[WARN] WEBHOOK_URL not set, notifications go to console only")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Swap Preparation Service Configuration ===")
	fmt.Println("════════════════════════════════════════")
	fmt.Println("  PREPARATION MODE")
	fmt.Println("  Approvals are broadcast; swaps are not")
	fmt.Println("════════════════════════════════════════")
	fmt.Printf("Chain ID: %d\n", c.ChainID)
	fmt.Printf("RPC Endpoint: %s\n", truncSecret(c.RPCEndpoint))
	fmt.Printf("Routing API: %s\n", c.RoutingAPIURL)
	fmt.Println("--------------------------------------")
	fmt.Println("Preparation Defaults:")
	fmt.Printf("  Token In:  %s\n", c.DefaultTokenIn)
	fmt.Printf("  Token Out: %s\n", c.DefaultTokenOut)
	fmt.Printf("  Amount:    %.4f\n", c.DefaultAmountIn)
	fmt.Printf("  Slippage:  %.2f%%\n", c.DefaultSlippagePercent)
	fmt.Println("--------------------------------------")
	fmt.Printf("Gas Limit: %d (multiplier %.2f)\n", c.GasLimit, c.GasMultiplier)
	fmt.Printf("Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("======================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// truncSecret hides the API-key tail most RPC provider URLs carry.
func truncSecret(url string) string {
	if i := strings.LastIndex(url, "/"); i > 8 && i < len(url)-1 {
		return url[:i+1] + "..."
	}
	return url
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
