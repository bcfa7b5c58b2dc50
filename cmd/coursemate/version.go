package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursemate/coursemate"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of coursemate",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("coursemate version %s\n", strings.TrimSpace(coursemate.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
