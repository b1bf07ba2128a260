package swd

import (
	"fmt"
	"strings"
)

// Register identifies the Debug Port or Access Port register an operation
// targets, as defined by ADIv5.
type Register uint8

const (
	RegUndefined Register = iota

	// Debug Port
	RegDPIDCODE
	RegDPABORT
	RegDPCTRLSTAT
	RegDPWCR
	RegDPRESEND
	RegDPSELECT
	RegDPRDBUFF
	RegDPROUTESEL

	// Access Port
	RegAPCSW
	RegAPTAR
	RegAPDRW
	RegAPBD0
	RegAPBD1
	RegAPBD2
	RegAPBD3
	RegAPCFG
	RegAPBASE
	RegAPRAZWI
	RegAPIDR
)

type registerInfo struct {
	name string
	ap   bool
	addr uint8 // A[3:2] as seen on the wire
}

var registers = map[Register]registerInfo{
	RegDPIDCODE:   {"IDCODE", false, 0x0},
	RegDPABORT:    {"ABORT", false, 0x0},
	RegDPCTRLSTAT: {"CTRL_STAT", false, 0x4},
	RegDPWCR:      {"WCR", false, 0x4},
	RegDPRESEND:   {"RESEND", false, 0x8},
	RegDPSELECT:   {"SELECT", false, 0x8},
	RegDPRDBUFF:   {"RDBUFF", false, 0xC},
	RegDPROUTESEL: {"ROUTESEL", false, 0xC},

	RegAPCSW:   {"CSW", true, 0x0},
	RegAPTAR:   {"TAR", true, 0x4},
	RegAPDRW:   {"DRW", true, 0xC},
	RegAPBD0:   {"BD0", true, 0x0},
	RegAPBD1:   {"BD1", true, 0x4},
	RegAPBD2:   {"BD2", true, 0x8},
	RegAPBD3:   {"BD3", true, 0xC},
	RegAPCFG:   {"CFG", true, 0x4},
	RegAPBASE:  {"BASE", true, 0x8},
	RegAPRAZWI: {"RAZ_WI", true, 0x0},
	RegAPIDR:   {"IDR", true, 0xC},
}

// Name is the bare register name, e.g. "SELECT".
func (r Register) Name() string {
	if info, ok := registers[r]; ok {
		return info.name
	}
	return "undefined"
}

// String returns the port-qualified name, e.g. "DP SELECT" or "AP IDR".
func (r Register) String() string {
	info, ok := registers[r]
	if !ok {
		if r == RegUndefined {
			return "undefined"
		}
		return fmt.Sprintf("Register(%d)", r)
	}
	if info.ap {
		return "AP " + info.name
	}
	return "DP " + info.name
}

// AccessPort reports whether r lives in the AP address space.
func (r Register) AccessPort() bool {
	return registers[r].ap
}

// Addr returns the A[3:2] address (0x0, 0x4, 0x8 or 0xC) used to reach r.
// Banked AP registers additionally need SELECT.APBANKSEL to be set.
func (r Register) Addr() uint8 {
	return registers[r].addr
}

// Bank returns the APBANKSEL value (SELECT[7:4] shifted into place) needed to
// reach an AP register. It is zero for DP registers.
func (r Register) Bank() uint32 {
	switch r {
	case RegAPBD0, RegAPBD1, RegAPBD2, RegAPBD3:
		return 0x10
	case RegAPCFG, RegAPBASE, RegAPIDR:
		return 0xF0
	}
	return 0
}

// LookupRegister finds a register by name. Names are case-insensitive and
// may carry a "dp"/"ap" prefix ("dp.select", "AP IDR", "ctrl/stat").
func LookupRegister(name string) (Register, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.NewReplacer("/", "_", "-", "_").Replace(n)

	wantPort := ""
	for _, prefix := range []string{"DP", "AP"} {
		for _, sep := range []string{".", " ", "_", ":"} {
			if strings.HasPrefix(n, prefix+sep) {
				wantPort = prefix
				n = strings.TrimSpace(n[len(prefix)+len(sep):])
			}
		}
	}
	if n == "CTRLSTAT" {
		n = "CTRL_STAT"
	}

	for reg, info := range registers {
		if info.name != n {
			continue
		}
		if wantPort == "AP" && !info.ap || wantPort == "DP" && info.ap {
			continue
		}
		return reg, true
	}
	return RegUndefined, false
}

// ResolveRegister maps a request onto a register. sel is the last value
// written to DP SELECT; it picks the AP bank and the DP CTRL/STAT vs WCR
// alias for writes.
func ResolveRegister(accessPort, read bool, addr uint8, sel uint32) Register {
	if accessPort {
		switch uint8(sel&0xF0) | addr {
		case 0x00:
			return RegAPCSW
		case 0x04:
			return RegAPTAR
		case 0x0C:
			return RegAPDRW
		case 0x10:
			return RegAPBD0
		case 0x14:
			return RegAPBD1
		case 0x18:
			return RegAPBD2
		case 0x1C:
			return RegAPBD3
		case 0xF4:
			return RegAPCFG
		case 0xF8:
			return RegAPBASE
		case 0xFC:
			return RegAPIDR
		default:
			return RegAPRAZWI
		}
	}

	switch addr {
	case 0x0:
		if read {
			return RegDPIDCODE
		}
		return RegDPABORT
	case 0x4:
		if !read && sel&1 != 0 {
			return RegDPWCR
		}
		return RegDPCTRLSTAT
	case 0x8:
		if read {
			return RegDPRESEND
		}
		return RegDPSELECT
	case 0xC:
		if read {
			return RegDPRDBUFF
		}
		return RegDPROUTESEL
	}
	return RegUndefined
}
