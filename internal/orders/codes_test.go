package orders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code := NewOrderCode()
		require.Len(t, code, CodeLen)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q in %q", r, code)
		}
		seen[code] = true
	}
	assert.Len(t, seen, 200)
}

func TestMakeSKU(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Cá Trác", "ca-trac"},
		{" Gạo nếp 5kg ", "gao-nep-5kg"},
		{"bún (khô)", "bun-kho"},
		{"Đường phèn", "duong-phen"},
		{"nan", "nan"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MakeSKU(c.in), "input %q", c.in)
	}
}

func TestMakeSKUConverges(t *testing.T) {
	// spelling variants of the same name land on the same product
	assert.Equal(t, MakeSKU("cá trác"), MakeSKU("Ca  Trac"))
	assert.Equal(t, MakeSKU("gạo nếp"), MakeSKU("GAO NEP"))
}
