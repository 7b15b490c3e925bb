package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTakeLab/OpenTakeoff/internal/project"
)

var newCmd = &cobra.Command{
	Use:   "new <project.yaml>",
	Short: "Create an empty project file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		p := project.New(name)
		if err := p.Save(path); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
