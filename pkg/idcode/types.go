package idcode

// DPIDR represents a parsed ADIv5 Debug Port identification register, read
// as DP IDCODE at address 0x0.
type DPIDR struct {
	Raw      uint32 // full register
	Revision uint8  // [31:28]
	PartNo   uint8  // [27:20]
	MinDP    bool   // [16] minimal debug port, no pushed operations
	Version  uint8  // [15:12] DP architecture version
	Designer uint16 // [11:1] JEP106
	Present  bool   // bit 0 reads as one
}

// APClass is the IDR[16:13] access port class.
type APClass uint8

const (
	APClassNone   APClass = 0x0
	APClassCOM    APClass = 0x1
	APClassMemory APClass = 0x8
)

func (c APClass) String() string {
	switch c {
	case APClassNone:
		return "JTAG-AP/legacy"
	case APClassCOM:
		return "COM-AP"
	case APClassMemory:
		return "MEM-AP"
	}
	return "reserved"
}

// APIDR represents a parsed Access Port identification register (AP IDR,
// bank 0xF offset 0xC).
type APIDR struct {
	Raw      uint32  // full register
	Revision uint8   // [31:28]
	Designer uint16  // [27:17] JEP106
	Class    APClass // [16:13]
	Variant  uint8   // [7:4]
	Type     uint8   // [3:0]
}

// BusName names the bus behind a MEM-AP, or returns "" when Type is not one
// of the documented values.
func (id APIDR) BusName() string {
	if id.Class != APClassMemory {
		return ""
	}
	switch id.Type {
	case 0x1:
		return "AHB3"
	case 0x2:
		return "APB2/APB3"
	case 0x4:
		return "AXI3/AXI4"
	case 0x5:
		return "AHB5"
	case 0x6:
		return "APB4/APB5"
	}
	return ""
}

// Manufacturer represents a JEP106 manufacturer entry
type Manufacturer struct {
	Code         uint16 // JEP106 code, continuation count in [10:7]
	Name         string // "ARM Ltd."
	Abbreviation string // "ARM"
}
