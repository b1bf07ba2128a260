package idcode

// ParseDPIDR parses a raw 32-bit DP IDCODE value into its component fields
func ParseDPIDR(raw uint32) DPIDR {
	return DPIDR{
		Raw:      raw,
		Revision: uint8((raw >> 28) & 0xF),
		PartNo:   uint8((raw >> 20) & 0xFF),
		MinDP:    (raw>>16)&0x1 == 0x1,
		Version:  uint8((raw >> 12) & 0xF),
		Designer: uint16((raw >> 1) & 0x7FF),
		Present:  (raw & 0x1) == 0x1,
	}
}

// ParseAPIDR parses a raw 32-bit AP IDR value into its component fields
func ParseAPIDR(raw uint32) APIDR {
	return APIDR{
		Raw:      raw,
		Revision: uint8((raw >> 28) & 0xF),
		Designer: uint16((raw >> 17) & 0x7FF),
		Class:    APClass((raw >> 13) & 0xF),
		Variant:  uint8((raw >> 4) & 0xF),
		Type:     uint8(raw & 0xF),
	}
}
