package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursemate/coursemate"
)

var searchCourse string

var searchCmd = &cobra.Command{
	Use:   "search <text>...",
	Short: "Find text across all notes",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		query := strings.Join(args, " ")

		hits, err := svc.SearchNotes(query, coursemate.SearchOptions{CoursePattern: searchCourse})
		if err != nil {
			fail(err)
		}
		if len(hits) == 0 {
			fmt.Printf("Nothing found for %q.\n", query)
			return
		}

		fmt.Printf("%d match(es) for %q:\n", len(hits), query)
		for _, h := range hits {
			where := "title"
			if h.Section != "" {
				where = h.Section
			}
			fmt.Printf("  [%s] %s - %s: %s\n", h.CourseName, h.NoteTitle, where, h.Snippet)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchCourse, "course", "", "Restrict to courses matching this glob")
}
