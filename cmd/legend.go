package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var legendCmd = &cobra.Command{
	Use:   "legend",
	Short: "Print the category legend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		enc, err := buildEncoder()
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		entries := enc.Legend()

		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(entries)
		}

		for _, e := range entries {
			fmt.Printf("%-45s %s\n", e.Label, e.Color)
		}
		return nil
	},
}

func init() {
	legendCmd.Flags().Bool("json", false, "emit legend as JSON")
	rootCmd.AddCommand(legendCmd)
}
