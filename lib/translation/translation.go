package translation

import (
	"github.com/leonelquinteros/gotext"
)

// Translate resolves a user-facing string for the configured language,
// falling back to the message id itself when no catalog matches.
func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
