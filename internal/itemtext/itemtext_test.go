package itemtext

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(name, qty string) Item {
	d, err := decimal.NewFromString(qty)
	if err != nil {
		panic(err)
	}
	return Item{Name: name, Quantity: d}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Item
	}{
		{
			name: "fractional and trailing quantities",
			in:   "nan2.375 cá trác2",
			want: []Item{item("nan", "2.375"), item("cá trác", "2")},
		},
		{
			name: "single name no quantity",
			in:   "gạo",
			want: []Item{item("gạo", "1")},
		},
		{
			name: "multi word names",
			in:   "gạo nếp2 cá thu3",
			want: []Item{item("gạo nếp", "2"), item("cá thu", "3")},
		},
		{
			name: "name with punctuation",
			in:   "mắm tôm (đặc biệt)2 bún5",
			want: []Item{item("mắm tôm (đặc biệt)", "2"), item("bún", "5")},
		},
		{
			name: "no quantity on last item",
			in:   "nước mắm2 đường",
			want: []Item{item("nước mắm", "2"), item("đường", "1")},
		},
		{
			name: "trailing whitespace",
			in:   "gạo2 ",
			want: []Item{item("gạo", "2")},
		},
		{
			name: "surrounding whitespace",
			in:   " \tcá trác2 gạo nếp \n",
			want: []Item{item("cá trác", "2"), item("gạo nếp", "1")},
		},
		{
			name: "whitespace only",
			in:   "   \t ",
			want: nil,
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Parse(c.in)
			require.Len(t, got, len(c.want))
			for i := range c.want {
				assert.Equal(t, c.want[i].Name, got[i].Name)
				assert.True(t, c.want[i].Quantity.Equal(got[i].Quantity),
					"item %d: want qty %s, got %s", i, c.want[i].Quantity, got[i].Quantity)
			}
		})
	}
}

func TestParseFallbackWholeInput(t *testing.T) {
	// digits glued without a valid boundary never segment; the whole trimmed
	// text comes back as one item with quantity 1
	got := Parse("  123 456  ")
	require.Len(t, got, 1)
	assert.Equal(t, "123 456", got[0].Name)
	assert.True(t, got[0].Quantity.Equal(decimal.NewFromInt(1)))
}

func TestParseResumesAfterBadRun(t *testing.T) {
	// "abc2x" cannot close a segment at position 0, the scanner shifts right
	// and still finds the tail
	got := Parse("abc2x")
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].Name)
	assert.True(t, got[0].Quantity.Equal(decimal.NewFromInt(1)))
}
