package deviceinfo

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/idcode"
)

// dpKey is used for debug port lookups
type dpKey struct {
	Designer uint16
	PartNo   uint8
	Version  uint8
}

// apKey is used for access port lookups; the revision field is ignored
type apKey struct {
	Designer uint16
	Class    idcode.APClass
	Variant  uint8
	Type     uint8
}

var (
	dpDB = make(map[dpKey]DPInfo)
	apDB = make(map[apKey]APInfo)
)

func registerDP(k dpKey, info DPInfo) {
	dpDB[k] = info
}

func registerAP(k apKey, info APInfo) {
	apDB[k] = info
}

// LookupDP returns debug port information for a DP IDCODE value.
// Falls back to generic info if the port is not in the database
func LookupDP(raw uint32) DPInfo {
	id := idcode.ParseDPIDR(raw)
	m, _ := idcode.LookupManufacturer(id.Designer)

	k := dpKey{Designer: id.Designer, PartNo: id.PartNo, Version: id.Version}
	if info, ok := dpDB[k]; ok {
		info.ID = id
		info.Manufacturer = m
		return info
	}

	return DPInfo{
		ID:           id,
		Manufacturer: m,
		Name:         fmt.Sprintf("DPv%d", id.Version),
		Description:  "No entry in debug port database",
		Multidrop:    id.Version >= 2,
	}
}

// LookupAP returns access port information for an AP IDR value.
// Falls back to generic info if the port is not in the database
func LookupAP(raw uint32) APInfo {
	id := idcode.ParseAPIDR(raw)
	m, _ := idcode.LookupManufacturer(id.Designer)

	k := apKey{Designer: id.Designer, Class: id.Class, Variant: id.Variant, Type: id.Type}
	if info, ok := apDB[k]; ok {
		info.ID = id
		info.Manufacturer = m
		if info.Bus == "" {
			info.Bus = id.BusName()
		}
		return info
	}

	// Unknown port – describe it from the class and type fields
	info := APInfo{
		ID:           id,
		Manufacturer: m,
		Name:         id.Class.String(),
		Bus:          id.BusName(),
		Description:  "No entry in access port database",
	}
	if info.Bus != "" {
		info.Name = info.Bus + "-AP"
	}
	if raw == 0 {
		info.Name = "none"
		info.Description = "No access port at this APSEL"
	}
	return info
}
