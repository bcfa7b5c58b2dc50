package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursemate/coursemate"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show the note templates and their sections",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for i, tpl := range coursemate.Templates() {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s (%s)\n", tpl.Name, tpl.Kind)
			for _, key := range tpl.Sections {
				fmt.Printf("  - %s\n", key)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
