package orders

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"github.com/toaiking/ECOGO-sub002/internal/vntext"
)

// CodeLen is fixed: reconciliation scans bank statements for runs of exactly
// this many uppercase characters.
const CodeLen = 8

// no 0/O/1/I, codes get retyped by hand into transfer notes
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewOrderCode returns a fresh order code. If crypto/rand ever fails we fall
// back to a uuid-derived code instead of blocking order creation.
func NewOrderCode() string {
	b := make([]byte, CodeLen)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return fallbackCode()
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b)
}

func fallbackCode() string {
	s := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return s[:CodeLen]
}

// MakeSKU derives the stable product key from a display name: diacritics
// folded, lowercased, every non-alphanumeric run squeezed to one dash.
// Same name in, same SKU out, so repeated imports converge on one product.
func MakeSKU(name string) string {
	folded := strings.ToLower(vntext.StripDiacritics(strings.TrimSpace(name)))
	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteRune('-')
				dash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		// ten toan ky tu ngoai bang chu latin, giu nguyen lam key
		return strings.ToLower(strings.TrimSpace(name))
	}
	return out
}
