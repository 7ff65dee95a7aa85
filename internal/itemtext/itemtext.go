// Package itemtext parses the free-form "items" column of imported order
// sheets ("nan2.375 cá trác2", "gạo nếp 5kg hạt sen") into ordered
// (name, quantity) pairs. Input comes straight from chat logs and spreadsheet
// cells, so the parser never fails: text it cannot segment becomes a single
// item with quantity 1.
package itemtext

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Item is one parsed line item, in input order.
type Item struct {
	Name     string
	Quantity decimal.Decimal
}

var one = decimal.NewFromInt(1)

// Parse scans left to right. A segment is a maximal run of name runes
// (letters in any script, spaces, periods, hyphens, parentheses) holding at
// least one letter, then an optional decimal quantity glued to it. The
// segment only counts when followed by a space and a letter, or the end of
// input. A missing quantity means 1. Whitespace-only input yields nil;
// input with no recognizable segment yields the whole trimmed text as one item.
func Parse(raw string) []Item {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	// scan the trimmed text: a trailing space would keep the last segment
	// from ever closing at end of input
	rs := []rune(trimmed)
	var items []Item
	for i := 0; i < len(rs); {
		it, next, ok := scanSegment(rs, i)
		if !ok {
			i++ // khong khop -> nhich 1 ky tu roi thu lai
			continue
		}
		items = append(items, it)
		i = next
	}

	if len(items) == 0 {
		return []Item{{Name: trimmed, Quantity: one}}
	}
	return items
}

func scanSegment(rs []rune, start int) (Item, int, bool) {
	i := start
	hasLetter := false
	for i < len(rs) && isNameRune(rs[i]) {
		if unicode.IsLetter(rs[i]) {
			hasLetter = true
		}
		i++
	}
	if i == start || !hasLetter {
		return Item{}, 0, false
	}
	name := strings.TrimSpace(string(rs[start:i]))

	qStart := i
	for i < len(rs) && isDigit(rs[i]) {
		i++
	}
	if i > qStart && i+1 < len(rs) && rs[i] == '.' && isDigit(rs[i+1]) {
		i++
		for i < len(rs) && isDigit(rs[i]) {
			i++
		}
	}
	qtyRaw := string(rs[qStart:i])

	// segment boundary: end of input, or one space then a letter
	if i < len(rs) {
		if !unicode.IsSpace(rs[i]) || i+1 >= len(rs) || !unicode.IsLetter(rs[i+1]) {
			return Item{}, 0, false
		}
	}

	qty := one
	if qtyRaw != "" {
		if d, err := decimal.NewFromString(qtyRaw); err == nil {
			qty = d
		}
	}
	return Item{Name: name, Quantity: qty}, i, true
}

func isNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', '-', '(', ')':
		return true
	}
	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
