package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coursemate/coursemate/pkg/core"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <course>",
	Short: "Export a course's notes as text, JSON or YAML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, err := core.ParseExportFormat(exportFormat)
		if err != nil {
			fail(err)
		}

		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}

		if exportOut == "" {
			if err := svc.ExportCourse(os.Stdout, c.ID, format); err != nil {
				fail(err)
			}
			return
		}

		f, err := os.Create(exportOut)
		if err != nil {
			fatal("Failed to create export file", err)
		}
		defer f.Close()
		if err := svc.ExportCourse(f, c.ID, format); err != nil {
			fail(err)
		}
		fmt.Printf("Exported %s to %s.\n", c.Name, exportOut)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "text", "Export format (text, json or yaml)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to this file instead of stdout")
}
