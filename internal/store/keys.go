package store

// Key scheme for the KV store. Defined once here, never inlined at call sites.
const (
	alertsPrefix = "alerts/"
	usersPrefix  = "users/"

	signalsKey = "signals"
	memesKey   = "memes"
	alphaKey   = "alpha"
	eventsKey  = "events"
	walletsKey = "wallets"
	metricsKey = "metrics"
)

func alertsKey(ownerID string) string { return alertsPrefix + ownerID }
func userKey(id string) string        { return usersPrefix + id }
