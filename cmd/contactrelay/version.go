package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/osa911/contactrelay/internal/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		if !asJSON {
			fmt.Printf("contactrelay %s\n", version.Info())
			return
		}

		data, err := json.MarshalIndent(version.GetBuildInfo(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting version: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Print build information as JSON")
}
