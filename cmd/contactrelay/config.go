package main

import (
	"encoding/json"
	"fmt"
	"os"

	envfile "github.com/osa911/contactrelay/internal/config/env"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect contactrelay configuration",
	Long:  `View the configuration contactrelay would run with.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long:  `Display the effective configuration in JSON format with secrets masked.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := envfile.LoadEnv(envDirs...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
			os.Exit(1)
		}
		cfg := loadConfig()

		if path != "" {
			fmt.Printf("Env file: %s\n", path)
		} else {
			fmt.Println("Env file: none")
		}
		fmt.Printf("Mode:     %s (%s)\n", cfg.Mode(), cfg.RateLimit().Policy())

		data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))

		for _, warning := range cfg.Warnings() {
			fmt.Printf("warning: %s\n", warning)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
