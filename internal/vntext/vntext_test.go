package vntext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDiacritics(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bún đậu mắm tôm", "Bun dau mam tom"},
		{"Nguyễn Văn Đức", "Nguyen Van Duc"},
		{"cá trác", "ca trac"},
		{"gạo nếp 5kg", "gao nep 5kg"},
		{"already ascii", "already ascii"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripDiacritics(c.in), "input %q", c.in)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0912 345 678", "0912345678"},
		{"+84 912-345-678", "0912345678"},
		{"84912345678", "0912345678"},
		{"(028) 3823 4567", "02838234567"},
		{"8412", "8412"}, // qua ngan, khong coi la ma quoc te
		{"", ""},
		{"lien he zalo", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizePhone(c.in), "input %q", c.in)
	}
}
