package cmd

import (
	"github.com/spf13/cobra"

	appui "github.com/OpenTakeLab/OpenTakeoff/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui [project.yaml]",
	Short: "Launch the interactive measurement canvas",
	Long: `Launch the takeoff canvas with tools for linear, surface, and count
measurements, scale calibration, and rubber-band selection.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return appui.Run(path)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
