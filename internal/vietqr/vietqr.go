// Package vietqr renders NAPAS 247 (VietQR) payment payloads: an EMVCo TLV
// string carrying the beneficiary account, the amount in VND and a transfer
// note, closed with a CRC-16/CCITT-FALSE checksum. The text is what ends up
// inside the QR image customers scan with their banking app.
package vietqr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toaiking/ECOGO-sub002/internal/vntext"
)

const (
	idPayloadFormat       = "00"
	idInitiationMethod    = "01"
	idMerchantAccountInfo = "38"
	idCurrency            = "53"
	idAmount              = "54"
	idCountryCode         = "58"
	idAdditionalData      = "62"
	idCRC                 = "63"

	subGUID        = "00"
	subBeneficiary = "01"
	subServiceCode = "02"

	subBankBIN   = "00"
	subAccountNo = "01"
	subPurpose   = "08"

	napasGUID   = "A000000727"
	serviceIBFT = "QRIBFTTA" // chuyen khoan den so tai khoan
	currencyVND = "704"
	countryVN   = "VN"

	maxPurposeLen = 20
)

// Request carries everything one payload needs. Amount is whole VND.
type Request struct {
	BankCode  string // unknown codes resolve to DefaultBIN
	AccountNo string
	Amount    int64
	Purpose   string // transfer note, normalized before encoding
}

// Encode builds the complete payload for a dynamic single-payment QR.
// It is total: unknown bank codes use the fallback BIN and a negative
// amount encodes as 0. Callers that care should pre-check via dir.BIN.
func Encode(dir *BankDirectory, req Request) string {
	bin, _ := dir.BIN(req.BankCode)
	amount := req.Amount
	if amount < 0 {
		amount = 0
	}

	beneficiary := FormatField(subBankBIN, bin) + FormatField(subAccountNo, req.AccountNo)
	merchant := FormatField(subGUID, napasGUID) +
		FormatField(subBeneficiary, beneficiary) +
		FormatField(subServiceCode, serviceIBFT)

	var b strings.Builder
	b.WriteString(FormatField(idPayloadFormat, "01"))
	b.WriteString(FormatField(idInitiationMethod, "12"))
	b.WriteString(FormatField(idMerchantAccountInfo, merchant))
	b.WriteString(FormatField(idCurrency, currencyVND))
	b.WriteString(FormatField(idAmount, strconv.FormatInt(amount, 10)))
	b.WriteString(FormatField(idCountryCode, countryVN))
	b.WriteString(FormatField(idAdditionalData, FormatField(subPurpose, NormalizePurpose(req.Purpose))))

	// CRC covers everything up to and including its own id+length header
	b.WriteString(idCRC + "04")
	payload := b.String()
	return payload + fmt.Sprintf("%04X", Checksum(payload))
}

// FormatField renders one TLV field: id, zero-padded two-digit byte length, value.
func FormatField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// NormalizePurpose folds a transfer note into the subset banks display
// reliably: diacritics stripped, anything but ASCII letters, digits and
// spaces dropped, capped at 20 characters.
func NormalizePurpose(s string) string {
	var b strings.Builder
	for _, r := range vntext.StripDiacritics(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > maxPurposeLen {
		out = out[:maxPurposeLen]
	}
	return out
}
