// Package format holds the pure string and number transforms used by the
// storefront views and the checkout form.
package format

import (
	"fmt"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ellipsis = "..."

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatPrice formats price as US dollars with en-US digit grouping.
func FormatPrice(price decimal.Decimal) string {
	sign := ""
	if price.IsNegative() {
		sign = "-"
		price = price.Abs()
	}
	rounded := price.Round(2)
	whole := rounded.Truncate(0).IntPart()
	cents := rounded.Sub(decimal.NewFromInt(whole)).Shift(2).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, printer.Sprintf("%d", whole), cents)
}

func Capitalize(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

// Truncate cuts text to maxLength runes and appends an ellipsis when it was
// longer than that.
func Truncate(text string, maxLength int) string {
	if maxLength < 0 {
		maxLength = 0
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLength]) + ellipsis
}

// Debounce returns call, which restarts the quiet period on every invocation,
// and cancel, which drops any pending invocation. fn runs at most once per
// quiet period, on its own goroutine.
func Debounce(delay time.Duration, fn func()) (call func(), cancel func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	call = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, fn)
	}
	cancel = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	return call, cancel
}

// GenerateOrderNumber derives an order number from the last 8 digits of the
// unix millisecond timestamp.
func GenerateOrderNumber(now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return "ORD-" + millis
}

func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006 15:04")
}
