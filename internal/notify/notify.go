// Package notify delivers alert messages to chat destinations. Delivery is
// best effort: failures are logged and swallowed, never surfaced to the
// caller.
package notify

// Notifier posts text to a destination (a Telegram chat or channel id).
type Notifier interface {
	Notify(destination, text string)
}

// Noop drops every message. Used when no bot token is configured.
type Noop struct{}

func (Noop) Notify(string, string) {}
