package deviceinfo

import "github.com/OpenTraceLab/OpenTraceSWD/pkg/idcode"

// ARM Ltd. debug and access port entries
func init() {
	const arm = 0x23B // ARM Ltd. JEP106 code

	// SW-DP
	registerDP(dpKey{Designer: arm, PartNo: 0xBA, Version: 1}, DPInfo{
		Name:        "SW-DP",
		Description: "ADIv5 serial wire debug port, DPv1",
		Cores:       "Cortex-M3, Cortex-M4",
	})
	registerDP(dpKey{Designer: arm, PartNo: 0xBA, Version: 2}, DPInfo{
		Name:        "SW-DP",
		Description: "ADIv5.2 serial wire debug port, DPv2",
		Multidrop:   true,
		Cores:       "Cortex-M7, Cortex-M33",
	})
	registerDP(dpKey{Designer: arm, PartNo: 0xBB, Version: 1}, DPInfo{
		Name:        "MINDP",
		Description: "Minimal serial wire debug port, DPv1",
		Cores:       "Cortex-M0",
	})
	registerDP(dpKey{Designer: arm, PartNo: 0xBC, Version: 1}, DPInfo{
		Name:        "MINDP",
		Description: "Minimal serial wire debug port, DPv1",
		Cores:       "Cortex-M0+",
	})
	registerDP(dpKey{Designer: arm, PartNo: 0xBC, Version: 2}, DPInfo{
		Name:        "MINDP",
		Description: "Minimal multidrop serial wire debug port, DPv2",
		Multidrop:   true,
		Cores:       "Cortex-M0+",
	})

	// MEM-AP
	registerAP(apKey{Designer: arm, Class: idcode.APClassMemory, Variant: 1, Type: 1}, APInfo{
		Name:        "AHB-AP",
		Description: "AHB-Lite memory access port",
		Cores:       "Cortex-M3, Cortex-M4",
	})
	registerAP(apKey{Designer: arm, Class: idcode.APClassMemory, Variant: 0, Type: 1}, APInfo{
		Name:        "AHB-AP",
		Description: "AHB memory access port",
		Cores:       "Cortex-M7",
	})
	registerAP(apKey{Designer: arm, Class: idcode.APClassMemory, Variant: 0, Type: 2}, APInfo{
		Name:        "APB-AP",
		Description: "CoreSight APB memory access port",
	})
	registerAP(apKey{Designer: arm, Class: idcode.APClassMemory, Variant: 0, Type: 4}, APInfo{
		Name:        "AXI-AP",
		Description: "AXI memory access port",
	})
}
