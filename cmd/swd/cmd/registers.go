package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

var registersCmd = &cobra.Command{
	Use:   "registers",
	Short: "List the DP and AP register map",
	Long: `List every Debug Port and Access Port register the decoder can resolve,
with the A[3:2] address and the SELECT.APBANKSEL bank needed to reach it.`,
	Args: cobra.NoArgs,
	RunE: runRegisters,
}

func init() {
	rootCmd.AddCommand(registersCmd)
}

func runRegisters(cmd *cobra.Command, args []string) error {
	fmt.Printf("%-4s %-10s %-6s %s\n", "Port", "Register", "Addr", "Bank")
	for r := swd.RegDPIDCODE; r <= swd.RegAPIDR; r++ {
		port := "DP"
		bank := "-"
		if r.AccessPort() {
			port = "AP"
			bank = fmt.Sprintf("0x%X", r.Bank()>>4)
		}
		if r == swd.RegAPRAZWI {
			fmt.Printf("%-4s %-10s %-6s %s\n", port, r.Name(), "any", "unmapped")
			continue
		}
		fmt.Printf("%-4s %-10s 0x%-4X %s\n", port, r.Name(), r.Addr(), bank)
	}
	return nil
}
