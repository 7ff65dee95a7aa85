package vntext

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var dReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

// StripDiacritics folds Vietnamese text to plain ASCII letters: "Bún đậu" -> "Bun dau".
// đ/Đ co codepoint rieng, khong phai dau ghep, nen NFD khong tach duoc -> map tay.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return dReplacer.Replace(out)
}

// NormalizePhone keeps digits only and rewrites the international 84 prefix to 0.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if strings.HasPrefix(d, "84") && len(d) >= 10 {
		d = "0" + d[2:]
	}
	return d
}
