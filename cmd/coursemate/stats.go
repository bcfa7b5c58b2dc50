package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursemate/coursemate"
	"github.com/coursemate/coursemate/pkg/core"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics over all courses",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		st := svc.Stats()

		fmt.Printf("Courses:        %d\n", st.Courses)
		fmt.Printf("Notes:          %d\n", st.Notes)
		fmt.Printf("Open tasks:     %d\n", st.TasksOpen)
		fmt.Printf("Done tasks:     %d\n", st.TasksDone)
		fmt.Printf("Study sessions: %d\n", st.StudySessions)
		fmt.Printf("Study time:     %d min\n", st.StudyMinutes)

		if st.Notes > 0 {
			fmt.Println("Notes by template:")
			for _, kind := range coursemate.Kinds() {
				if count := st.NotesByKind[kind]; count > 0 {
					fmt.Printf("  %-20s %d\n", core.DisplayName(kind), count)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
