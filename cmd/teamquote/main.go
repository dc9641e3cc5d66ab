// Package main provides the entry point for the team quoting HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "teamquote",
	Short: "Offshore team quoting API server",
	Long:  "teamquote prices offshore teams: it matches candidate pools against role requirements, recommends and ranks candidates, and produces currency-converted monthly quotes via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
