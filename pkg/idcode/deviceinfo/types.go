package deviceinfo

import "github.com/OpenTraceLab/OpenTraceSWD/pkg/idcode"

// DPInfo contains rich information about a debug port identified by DPIDR
type DPInfo struct {
	// Key fields
	ID           idcode.DPIDR
	Manufacturer idcode.Manufacturer

	// Human-friendly
	Name        string // "SW-DP"
	Description string // "Cortex-M3/M4 class serial wire debug port"

	// Capabilities / hints
	Multidrop bool   // DPv2 with TARGETSEL
	Cores     string // "Cortex-M3, Cortex-M4", if known
}

// APInfo contains rich information about an access port identified by its IDR
type APInfo struct {
	ID           idcode.APIDR
	Manufacturer idcode.Manufacturer

	Name        string // "AHB-AP"
	Description string
	Bus         string // "AHB3", from the IDR type field for MEM-APs
	Cores       string
}
