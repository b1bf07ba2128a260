package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/idcode/deviceinfo"
)

var (
	idcodeAP   bool
	idcodeJSON bool
)

var idcodeCmd = &cobra.Command{
	Use:   "idcode <value>",
	Short: "Break down a DP IDCODE or AP IDR value",
	Long: `Decode the fields of a DP IDCODE (DPIDR) value, or of an AP IDR value with
--ap, and look the port up in the built-in database.

Examples:
  swd idcode 0x2BA01477
  swd idcode --ap 0x24770011
  swd idcode --json 0x0BC11477`,
	Args: cobra.ExactArgs(1),
	RunE: runIDCode,
}

func init() {
	rootCmd.AddCommand(idcodeCmd)

	idcodeCmd.Flags().BoolVar(&idcodeAP, "ap", false, "value is an AP IDR")
	idcodeCmd.Flags().BoolVar(&idcodeJSON, "json", false, "output as JSON")
}

// IDInfo is the JSON form of an identification register breakdown
type IDInfo struct {
	Raw          string `json:"raw"`
	Kind         string `json:"kind"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Description  string `json:"description,omitempty"`
	Cores        string `json:"cores,omitempty"`
	Revision     uint8  `json:"revision"`

	// DP fields
	PartNo    *uint8 `json:"part_no,omitempty"`
	Version   *uint8 `json:"version,omitempty"`
	MinDP     bool   `json:"min_dp,omitempty"`
	Multidrop bool   `json:"multidrop,omitempty"`

	// AP fields
	Class   string `json:"class,omitempty"`
	Variant *uint8 `json:"variant,omitempty"`
	Type    *uint8 `json:"type,omitempty"`
	Bus     string `json:"bus,omitempty"`
}

func runIDCode(cmd *cobra.Command, args []string) error {
	v, err := strconv.ParseUint(strings.ReplaceAll(args[0], "_", ""), 0, 32)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[0], err)
	}
	raw := uint32(v)

	var info IDInfo
	if idcodeAP {
		ap := deviceinfo.LookupAP(raw)
		info = IDInfo{
			Raw:          fmt.Sprintf("0x%08X", raw),
			Kind:         "AP IDR",
			Name:         ap.Name,
			Manufacturer: ap.Manufacturer.Name,
			Description:  ap.Description,
			Cores:        ap.Cores,
			Revision:     ap.ID.Revision,
			Class:        ap.ID.Class.String(),
			Variant:      &ap.ID.Variant,
			Type:         &ap.ID.Type,
			Bus:          ap.Bus,
		}
	} else {
		dp := deviceinfo.LookupDP(raw)
		info = IDInfo{
			Raw:          fmt.Sprintf("0x%08X", raw),
			Kind:         "DP IDCODE",
			Name:         dp.Name,
			Manufacturer: dp.Manufacturer.Name,
			Description:  dp.Description,
			Cores:        dp.Cores,
			Revision:     dp.ID.Revision,
			PartNo:       &dp.ID.PartNo,
			Version:      &dp.ID.Version,
			MinDP:        dp.ID.MinDP,
			Multidrop:    dp.Multidrop,
		}
	}

	if idcodeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("%s %s\n", info.Kind, info.Raw)
	fmt.Printf("  Name:         %s\n", info.Name)
	fmt.Printf("  Manufacturer: %s\n", info.Manufacturer)
	if info.PartNo != nil {
		fmt.Printf("  Part number:  0x%02X\n", *info.PartNo)
		fmt.Printf("  Version:      DPv%d\n", *info.Version)
		fmt.Printf("  Minimal DP:   %v\n", info.MinDP)
		fmt.Printf("  Multidrop:    %v\n", info.Multidrop)
	} else {
		fmt.Printf("  Class:        %s\n", info.Class)
		fmt.Printf("  Variant:      0x%X\n", *info.Variant)
		fmt.Printf("  Type:         0x%X\n", *info.Type)
		if info.Bus != "" {
			fmt.Printf("  Bus:          %s\n", info.Bus)
		}
	}
	fmt.Printf("  Revision:     %d\n", info.Revision)
	if info.Cores != "" {
		fmt.Printf("  Cores:        %s\n", info.Cores)
	}
	if info.Description != "" {
		fmt.Printf("  Description:  %s\n", info.Description)
	}
	return nil
}
