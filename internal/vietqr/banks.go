package vietqr

import "strings"

// DefaultBIN backs any bank code the directory does not know. Vietcombank is
// the house account's bank, so a misconfigured code still produces a payable QR.
const DefaultBIN = "970436"

// BankDirectory maps bank short codes to NAPAS member BINs. Built once at
// startup and shared read-only afterwards.
type BankDirectory struct {
	bins map[string]string
}

func NewBankDirectory() *BankDirectory {
	return &BankDirectory{bins: map[string]string{
		"VCB":         "970436",
		"VIETCOMBANK": "970436",
		"VTB":         "970415",
		"VIETINBANK":  "970415",
		"BIDV":        "970418",
		"AGR":         "970405",
		"AGRIBANK":    "970405",
		"TCB":         "970407",
		"TECHCOMBANK": "970407",
		"MB":          "970422",
		"MBBANK":      "970422",
		"ACB":         "970416",
		"VPB":         "970432",
		"VPBANK":      "970432",
		"TPB":         "970423",
		"TPBANK":      "970423",
		"STB":         "970403",
		"SACOMBANK":   "970403",
		"HDB":         "970437",
		"VIB":         "970441",
		"SHB":         "970443",
		"EIB":         "970431",
		"MSB":         "970426",
		"OCB":         "970448",
		"SEAB":        "970440",
		"NAB":         "970428",
		"LPB":         "970449",
		"ABB":         "970425",
	}}
}

// BIN resolves a bank code. ok reports whether the code was known; on false
// the fallback DefaultBIN is returned and callers may want to log that.
func (d *BankDirectory) BIN(code string) (string, bool) {
	bin, ok := d.bins[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return DefaultBIN, false
	}
	return bin, true
}
