// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
)

// DefaultCurrency is used when a currency code is unknown.
const DefaultCurrency = money.INR

// FormatMoney formats a whole-unit amount in the given ISO 4217 currency.
// e.g., (1234567.4, "USD") -> "$1,234,567"
func FormatMoney(amount float64, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	f := money.NewFormatter(0, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(int64(math.Round(amount)))
}

// FormatCompactMoney formats an amount with K/M/B suffixes for narrow columns.
// e.g., (1234567, "USD") -> "$1.2M"
func FormatCompactMoney(amount float64, code string) string {
	abs := math.Abs(amount)
	var scaled float64
	var suffix string
	switch {
	case abs >= 1_000_000_000:
		scaled, suffix = amount/1_000_000_000, "B"
	case abs >= 1_000_000:
		scaled, suffix = amount/1_000_000, "M"
	case abs >= 1_000:
		scaled, suffix = amount/1_000, "K"
	default:
		return FormatMoney(amount, code)
	}

	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	num := strconv.FormatFloat(math.Abs(scaled), 'f', 1, 64) + suffix
	out := strings.Replace(cur.Template, "1", num, 1)
	out = strings.Replace(out, "$", cur.Grapheme, 1)
	if amount < 0 {
		out = "-" + out
	}
	return out
}

// FormatSignedMoney formats a delta with an explicit sign.
func FormatSignedMoney(delta float64, code string) string {
	if math.Round(delta) >= 0 {
		return "+" + FormatMoney(delta, code)
	}
	return FormatMoney(delta, code)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatPointsDelta formats a change between two 0-1 probabilities in
// percentage points.
func FormatPointsDelta(delta float64) string {
	return fmt.Sprintf("%+.1f pp", delta*100)
}

// FormatElapsed formats a run duration.
// e.g., 1.5s -> "1.50s", 250ms -> "250ms"
func FormatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// FormatAge formats how long ago t was, relative to now.
func FormatAge(t, now time.Time) string {
	secs := int64(now.Sub(t).Seconds())
	switch {
	case secs < 60:
		return "just now"
	case secs < 3600:
		return fmt.Sprintf("%dm ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%dh ago", secs/3600)
	default:
		return fmt.Sprintf("%dd ago", secs/86400)
	}
}
