// Package reconcile matches bank statement text against unpaid orders and
// marks the hits as payment-verified.
package reconcile

import (
	"strings"

	"github.com/toaiking/ECOGO-sub002/internal/orders"
	"github.com/toaiking/ECOGO-sub002/internal/vntext"
)

// Match scans free-form statement text for order codes and intersects them
// with the candidates. After diacritics folding and upper-casing, a token is
// a maximal run of ASCII letters/digits of exactly orders.CodeLen; longer
// runs never yield a token, so a code glued to other characters stays
// invisible. Returns matches in candidate order plus the sum of their totals.
func Match(text string, candidates []orders.Order) ([]orders.Order, int64) {
	tokens := codeTokens(text)
	if len(tokens) == 0 {
		return nil, 0
	}

	var matched []orders.Order
	var total int64
	for _, o := range candidates {
		if tokens[strings.ToUpper(o.Code)] {
			matched = append(matched, o)
			total += o.Total
		}
	}
	return matched, total
}

func codeTokens(text string) map[string]bool {
	rs := []rune(strings.ToUpper(vntext.StripDiacritics(text)))
	out := map[string]bool{}
	for i := 0; i < len(rs); {
		if !isCodeRune(rs[i]) {
			i++
			continue
		}
		j := i
		for j < len(rs) && isCodeRune(rs[j]) {
			j++
		}
		if j-i == orders.CodeLen {
			out[string(rs[i:j])] = true
		}
		i = j
	}
	return out
}

func isCodeRune(r rune) bool {
	return r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
