// Package main is the entry point for the companion town server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "companion-api",
	Short: "Companion Town gRPC Server",
	Long:  `Companion API runs the persistent social simulation behind the companion town: bonds, resonance, reputation, quests, achievements, offline progress, and seasonal events.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
