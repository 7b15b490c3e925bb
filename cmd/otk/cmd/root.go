package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otk",
	Short: "OpenTakeoff - Measurement takeoff over plan images",
	Long: `OpenTakeoff (otk) measures linear distances, surface areas, and item
counts over raster plan images at a calibrated scale.

Examples:
  otk ui                              # Launch the interactive canvas
  otk ui project.yaml                 # Launch with a project loaded
  otk new myproject.yaml              # Create an empty project file
  otk info project.yaml               # Show pages and totals
  otk export project.yaml out.csv     # Export measurements as CSV`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
