package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

// CoinGecko fetches simple prices from the CoinGecko API. Assets are
// CoinGecko ids like "bitcoin" or "ethereum".
type CoinGecko struct {
	baseURL string
	client  *http.Client
}

func NewCoinGecko(baseURL string) *CoinGecko {
	return &CoinGecko{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *CoinGecko) Price(ctx context.Context, asset string) (float64, bool) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(asset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Errorf("failed to build quote request for %s: %v", asset, err)
		return 0, false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Errorf("quote fetch failed for %s: %v", asset, err)
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Errorf("quote fetch for %s returned status %d", asset, resp.StatusCode)
		return 0, false
	}

	var payload map[string]struct {
		USD *float64 `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Errorf("failed to parse quote response for %s: %v", asset, err)
		return 0, false
	}

	entry, ok := payload[asset]
	if !ok || entry.USD == nil {
		log.Debugf("no price data for asset %s", asset)
		return 0, false
	}
	return *entry.USD, true
}
