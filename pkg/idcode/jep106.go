package idcode

import "fmt"

// manufacturers is the JEP106 manufacturer database, keyed by the 11-bit
// designer code used in DPIDR and AP IDR: continuation count << 7 | identity.
var manufacturers = map[uint16]Manufacturer{
	// bank 1
	0x001: {Code: 0x001, Name: "AMD", Abbreviation: "AMD"},
	0x004: {Code: 0x004, Name: "Fujitsu", Abbreviation: "Fujitsu"},
	0x009: {Code: 0x009, Name: "Intel", Abbreviation: "Intel"},
	0x00E: {Code: 0x00E, Name: "Freescale (Motorola)", Abbreviation: "Freescale"},
	0x010: {Code: 0x010, Name: "NEC", Abbreviation: "NEC"},
	0x015: {Code: 0x015, Name: "NXP (Philips)", Abbreviation: "NXP"},
	0x017: {Code: 0x017, Name: "Texas Instruments", Abbreviation: "TI"},
	0x01C: {Code: 0x01C, Name: "Mitsubishi", Abbreviation: "Mitsubishi"},
	0x01F: {Code: 0x01F, Name: "Atmel", Abbreviation: "Atmel"},
	0x020: {Code: 0x020, Name: "STMicroelectronics", Abbreviation: "STM"},
	0x021: {Code: 0x021, Name: "Lattice Semiconductor", Abbreviation: "Lattice"},
	0x029: {Code: 0x029, Name: "Microchip Technology", Abbreviation: "Microchip"},
	0x049: {Code: 0x049, Name: "Xilinx", Abbreviation: "Xilinx"},
	0x06E: {Code: 0x06E, Name: "Altera", Abbreviation: "Altera"},

	// bank 5 (four continuation codes)
	0x23B: {Code: 0x23B, Name: "ARM Ltd.", Abbreviation: "ARM"},
	0x244: {Code: 0x244, Name: "Nordic Semiconductor", Abbreviation: "Nordic"},

	// bank 15
	0x751: {Code: 0x751, Name: "GigaDevice Semiconductor", Abbreviation: "GigaDevice"},

	// bank 19
	0x927: {Code: 0x927, Name: "Raspberry Pi Trading", Abbreviation: "RPi"},
}

// LookupManufacturer returns manufacturer info for a JEP106 code
func LookupManufacturer(code uint16) (Manufacturer, bool) {
	m, ok := manufacturers[code]
	if !ok {
		// Return unknown manufacturer
		return Manufacturer{
			Code:         code,
			Name:         fmt.Sprintf("Unknown (0x%03X)", code),
			Abbreviation: "Unknown",
		}, false
	}
	return m, true
}
