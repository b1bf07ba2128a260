package annotate

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/idcode"
	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

// field is a bit range of a register value. One-bit fields without names
// are shown by name when set and omitted otherwise.
type field struct {
	name   string
	hi, lo uint
	names  map[uint32]string
}

func (f field) width() int { return int(f.hi-f.lo) + 1 }

func (f field) extract(v uint32) uint32 {
	return (v >> f.lo) & (1<<uint(f.width()) - 1)
}

var registerFields = map[swd.Register][]field{
	swd.RegDPABORT: {
		{name: "ORUNERRCLR", hi: 4, lo: 4},
		{name: "WDERRCLR", hi: 3, lo: 3},
		{name: "STKERRCLR", hi: 2, lo: 2},
		{name: "STKCMPCLR", hi: 1, lo: 1},
		{name: "DAPABORT", hi: 0, lo: 0},
	},
	swd.RegDPCTRLSTAT: {
		{name: "CSYSPWRUPACK", hi: 31, lo: 31},
		{name: "CSYSPWRUPREQ", hi: 30, lo: 30},
		{name: "CDBGPWRUPACK", hi: 29, lo: 29},
		{name: "CDBGPWRUPREQ", hi: 28, lo: 28},
		{name: "CDBGRSTACK", hi: 27, lo: 27},
		{name: "CDBGRSTREQ", hi: 26, lo: 26},
		{name: "TRNCNT", hi: 23, lo: 12},
		{name: "MASKLANE", hi: 11, lo: 8},
		{name: "WDATAERR", hi: 7, lo: 7},
		{name: "READOK", hi: 6, lo: 6},
		{name: "STICKYERR", hi: 5, lo: 5},
		{name: "STICKYCMP", hi: 4, lo: 4},
		{name: "TRNMODE", hi: 3, lo: 2, names: map[uint32]string{0: "normal", 1: "pushed-verify", 2: "pushed-compare"}},
		{name: "STICKYORUN", hi: 1, lo: 1},
		{name: "ORUNDETECT", hi: 0, lo: 0},
	},
	swd.RegDPSELECT: {
		{name: "APSEL", hi: 31, lo: 24},
		{name: "APBANKSEL", hi: 7, lo: 4},
		{name: "DPBANKSEL", hi: 3, lo: 0},
	},
	swd.RegDPWCR: {
		{name: "TURNROUND", hi: 9, lo: 8},
		{name: "WIREMODE", hi: 7, lo: 6},
		{name: "PRESCALER", hi: 2, lo: 0},
	},
	swd.RegAPCSW: {
		{name: "DbgSwEnable", hi: 31, lo: 31},
		{name: "Prot", hi: 30, lo: 24},
		{name: "SPIDEN", hi: 23, lo: 23},
		{name: "Mode", hi: 11, lo: 8},
		{name: "TrInProg", hi: 7, lo: 7},
		{name: "DeviceEn", hi: 6, lo: 6},
		{name: "AddrInc", hi: 5, lo: 4, names: map[uint32]string{0: "off", 1: "single", 2: "packed"}},
		{name: "Size", hi: 2, lo: 0, names: map[uint32]string{0: "byte", 1: "halfword", 2: "word", 3: "doubleword"}},
	},
}

// DescribeRegister breaks value down into the fields of reg. It returns ""
// for registers without a known layout.
func DescribeRegister(reg swd.Register, value uint32, base DisplayBase) string {
	switch reg {
	case swd.RegDPIDCODE:
		id := idcode.ParseDPIDR(value)
		m, _ := idcode.LookupManufacturer(id.Designer)
		parts := []string{
			fmt.Sprintf("designer %s", m.Name),
			"PARTNO=" + FormatNumber(uint64(id.PartNo), base, 8),
			"VERSION=" + FormatNumber(uint64(id.Version), base, 4),
			"REVISION=" + FormatNumber(uint64(id.Revision), base, 4),
		}
		if id.MinDP {
			parts = append(parts, "MIN")
		}
		return strings.Join(parts, ", ")
	case swd.RegAPIDR:
		id := idcode.ParseAPIDR(value)
		m, _ := idcode.LookupManufacturer(id.Designer)
		return strings.Join([]string{
			"REVISION=" + FormatNumber(uint64(id.Revision), base, 4),
			fmt.Sprintf("designer %s", m.Name),
			"CLASS=" + id.Class.String(),
			"VARIANT=" + FormatNumber(uint64(id.Variant), base, 4),
			"TYPE=" + FormatNumber(uint64(id.Type), base, 4),
		}, ", ")
	case swd.RegAPTAR:
		return "address " + FormatNumber(uint64(value), base, 32)
	case swd.RegAPBASE:
		if value == 0xFFFFFFFF {
			return "no debug entry"
		}
		s := "address " + FormatNumber(uint64(value&0xFFFFF000), base, 32)
		if value&0x2 != 0 {
			s += ", ADIv5 format"
		}
		if value&0x1 != 0 {
			s += ", PRESENT"
		}
		return s
	}

	fields, ok := registerFields[reg]
	if !ok {
		return ""
	}
	var parts []string
	for _, f := range fields {
		v := f.extract(value)
		switch {
		case f.names != nil:
			if n, ok := f.names[v]; ok {
				parts = append(parts, f.name+"="+n)
			} else {
				parts = append(parts, f.name+"="+FormatNumber(uint64(v), base, f.width()))
			}
		case f.width() == 1:
			if v != 0 {
				parts = append(parts, f.name)
			}
		default:
			parts = append(parts, f.name+"="+FormatNumber(uint64(v), base, f.width()))
		}
	}
	return strings.Join(parts, ", ")
}
