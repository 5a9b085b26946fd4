package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the resume builder version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("resume_builder %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCommand)
}
