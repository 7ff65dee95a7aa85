package vietqr

// Checksum is CRC-16/CCITT-FALSE over the payload bytes: init 0xFFFF,
// polynomial 0x1021, MSB first, no reflection, no final xor. The EMVCo spec
// pins this exact variant, so no reuse of hash/crc32 style tables here.
func Checksum(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
