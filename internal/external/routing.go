package external

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"time"
)

// RoutingClient fetches exact-input quotes from the Uniswap routing API.
//
// Quote requests are single-shot: a failed request is terminal for that
// call, there is no retry here.
type RoutingClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRoutingClient(baseURL string) *RoutingClient {
	return &RoutingClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Quote requests an exact-input quote restricted to the v2 and v3 pool
// protocols. Returns the parsed JSON body on HTTP 200; any other status or
// transport failure is an error.
func (c *RoutingClient) Quote(ctx context.Context, tokenIn, tokenOut string, amountRaw *big.Int) (map[string]any, error) {
	q := url.Values{}
	q.Set("tokenInAddress", tokenIn)
	q.Set("tokenOutAddress", tokenOut)
	q.Set("amount", amountRaw.String())
	q.Set("type", "exactIn")
	q.Set("protocols", "v2,v3")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing API returned status %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return body, nil
}
