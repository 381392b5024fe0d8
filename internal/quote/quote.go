// Package quote fetches current USD prices for tracked assets. A client
// never fails hard: any upstream problem degrades to "unavailable" and the
// caller skips the asset for this pass.
package quote

import "context"

// Client returns the current USD price for an asset identifier, or false
// when the price cannot be determined right now.
type Client interface {
	Price(ctx context.Context, asset string) (float64, bool)
}
