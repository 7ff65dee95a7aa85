package vietqr

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatField(t *testing.T) {
	assert.Equal(t, "000201", FormatField("00", "01"))
	assert.Equal(t, "5303704", FormatField("53", "704"))
	assert.Equal(t, "0010A000000727", FormatField("00", "A000000727"))
	assert.Equal(t, "6200", FormatField("62", ""))
}

func TestChecksumKnownVector(t *testing.T) {
	// the standard CRC-16/CCITT-FALSE check value
	assert.Equal(t, uint16(0x29B1), Checksum("123456789"))
}

func TestEncodeStructure(t *testing.T) {
	dir := NewBankDirectory()
	payload := Encode(dir, Request{
		BankCode:  "VCB",
		AccountNo: "0011002233445",
		Amount:    125000,
		Purpose:   "DH ABC12345",
	})

	assert.True(t, strings.HasPrefix(payload, "000201"), "payload %q", payload)
	assert.Contains(t, payload, "010212")
	assert.Contains(t, payload, "0010A000000727")
	assert.Contains(t, payload, "0006970436")
	assert.Contains(t, payload, "01130011002233445")
	assert.Contains(t, payload, "0208QRIBFTTA")
	assert.Contains(t, payload, "5303704")
	assert.Contains(t, payload, "54061250005802VN")
	assert.Contains(t, payload, "0811DH ABC12345")
}

func TestEncodeChecksumSelfConsistent(t *testing.T) {
	dir := NewBankDirectory()
	payload := Encode(dir, Request{BankCode: "TCB", AccountNo: "19034567890", Amount: 99000, Purpose: "don hang"})

	require.Greater(t, len(payload), 8)
	body := payload[:len(payload)-4]
	require.True(t, strings.HasSuffix(body, "6304"))
	assert.Equal(t, fmt.Sprintf("%04X", Checksum(body)), payload[len(payload)-4:])
}

func TestEncodeDeterministic(t *testing.T) {
	dir := NewBankDirectory()
	req := Request{BankCode: "MB", AccountNo: "555666777", Amount: 40000, Purpose: "GAO NEP"}
	assert.Equal(t, Encode(dir, req), Encode(dir, req))
}

func TestEncodeFallbacks(t *testing.T) {
	dir := NewBankDirectory()

	bin, ok := dir.BIN("NO-SUCH-BANK")
	assert.False(t, ok)
	assert.Equal(t, DefaultBIN, bin)

	payload := Encode(dir, Request{BankCode: "NO-SUCH-BANK", AccountNo: "123", Amount: -5})
	assert.Contains(t, payload, "0006"+DefaultBIN)
	assert.Contains(t, payload, "540105802VN") // negative amount encodes as 0
}

func TestNormalizePurpose(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Thanh toán đơn #ABC-123!", "Thanh toan don ABC12"},
		{"DH4X9K2PQ", "DH4X9K2PQ"},
		{"trả tiền bún đậu", "tra tien bun dau"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizePurpose(c.in), "input %q", c.in)
	}
}
