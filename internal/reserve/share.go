package reserve

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Sharer is one way of handing the summary to the user: a native share sheet,
// the clipboard, and so on.
type Sharer interface {
	Name() string
	Available() bool
	Share(text string) error
}

// ShareNone is returned when no sharer accepted the text.
const ShareNone = "none"

// Share offers text to each available sharer in order and returns the name of the one
// that accepted it. Errors are swallowed; the next sharer is tried.
func Share(text string, sharers ...Sharer) string {
	for _, s := range sharers {
		if s == nil || !s.Available() {
			continue
		}
		if err := s.Share(text); err != nil {
			continue
		}
		return s.Name()
	}
	return ShareNone
}

// ShareTextKey is the catalog message ShareText prints. The English text is used
// until a catalog registers the key for tag.
const ShareTextKey = "reserve.share_text"

// ShareText renders the shareable one-line description of a receipt or selection,
// with numbers formatted for tag.
func ShareText(tag language.Tag, area int, cost int64, currency string) string {
	p := message.NewPrinter(tag)
	var b strings.Builder
	b.WriteString(p.Sprintf(message.Key(ShareTextKey, "I just protected %d m²"), area))
	if cost > 0 {
		b.WriteString(" (")
		b.WriteString(FormatPrice(tag, cost, currency))
		b.WriteString(")")
	}
	b.WriteString(".")
	return b.String()
}

// FormatPrice formats a whole-unit amount with locale digit grouping.
func FormatPrice(tag language.Tag, amount int64, currency string) string {
	p := message.NewPrinter(tag)
	if sym, ok := currencySymbols[currency]; ok {
		return sym + p.Sprintf("%d", amount)
	}
	return fmt.Sprintf("%s %s", currency, p.Sprintf("%d", amount))
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}
