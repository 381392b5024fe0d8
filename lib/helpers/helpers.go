package helpers

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EscapeMarkdownV2 escapes everything Telegram's MarkdownV2 parser treats as
// markup.
func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

// FormatPriceUS renders a price with US thousand separators and a decimal
// precision matched to the magnitude.
func FormatPriceUS(price float64, escapeMarkdown bool) string {
	decimals := 6

	if price >= 1000 {
		decimals = 0
	} else if price > 1.2 {
		decimals = 2
	} else if price < 0.00001 {
		decimals = 8
	}

	p := message.NewPrinter(language.English)
	formatted := p.Sprintf("%.*f", decimals, price)

	if escapeMarkdown {
		return EscapeMarkdownV2(formatted)
	}
	return formatted
}
