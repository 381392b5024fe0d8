package quote

import (
	"context"

	"github.com/coinpaprika/coinpaprika-api-go-client/v2/coinpaprika"
	log "github.com/sirupsen/logrus"
)

// CoinPaprika resolves prices through the CoinPaprika API. Assets are
// looked up by symbol or name search, so it accepts the same loose asset
// identifiers users type.
type CoinPaprika struct {
	client *coinpaprika.Client
}

func NewCoinPaprika(apiProKey string) *CoinPaprika {
	if apiProKey != "" {
		return &CoinPaprika{client: coinpaprika.NewClient(nil, coinpaprika.WithAPIKey(apiProKey))}
	}
	return &CoinPaprika{client: coinpaprika.NewClient(nil)}
}

func (c *CoinPaprika) Price(_ context.Context, asset string) (float64, bool) {
	searchOpts := &coinpaprika.SearchOptions{
		Query:      asset,
		Categories: "currencies",
		Modifier:   "symbol_search",
	}
	result, err := c.client.Search.Search(searchOpts)
	if err != nil || len(result.Currencies) == 0 {
		searchOpts = &coinpaprika.SearchOptions{Query: asset, Categories: "currencies"}
		result, err = c.client.Search.Search(searchOpts)
		if err != nil || len(result.Currencies) == 0 {
			log.Debugf("no coinpaprika match for asset %s", asset)
			return 0, false
		}
	}

	coin := result.Currencies[0]
	if coin.ID == nil {
		return 0, false
	}

	ticker, err := c.client.Tickers.GetByID(*coin.ID, &coinpaprika.TickersOptions{Quotes: "USD"})
	if err != nil {
		log.Errorf("coinpaprika ticker fetch failed for %s: %v", asset, err)
		return 0, false
	}
	usd, ok := ticker.Quotes["USD"]
	if !ok || usd.Price == nil {
		return 0, false
	}
	return *usd.Price, true
}
