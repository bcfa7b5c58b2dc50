package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/coursemate/coursemate"
	"github.com/coursemate/coursemate/pkg/core"
)

var (
	courseJSON       bool
	courseMatch      string
	courseCode       string
	courseInstructor string
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Manage courses",
}

var courseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a course",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		c, err := svc.AddCourse(context.Background(), coursemate.NewCourse{
			Name:       args[0],
			Code:       courseCode,
			Instructor: courseInstructor,
		})
		if err != nil {
			fail(err)
		}
		fmt.Printf("Added course %s (%s)\n", c.Name, c.ID)
	},
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all courses",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		courses := svc.Courses()

		if courseMatch != "" {
			pattern := strings.ToLower(courseMatch)
			if !doublestar.ValidatePattern(pattern) {
				fail(fmt.Errorf("invalid pattern %q", courseMatch))
			}
			filtered := courses[:0]
			for _, c := range courses {
				if ok, _ := doublestar.Match(pattern, strings.ToLower(c.Name)); ok {
					filtered = append(filtered, c)
				}
			}
			courses = filtered
		}

		if courseJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(courses); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, c := range courses {
			name := c.Name
			if c.Code != "" {
				name += " [" + c.Code + "]"
			}
			fmt.Printf("%s  %s - %d note(s), %d open task(s)\n", c.ID, name, len(c.Notes), c.PendingTasks())
		}
	},
}

var courseShowCmd = &cobra.Command{
	Use:   "show <course>",
	Short: "Show one course with its tasks and notes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}

		fmt.Printf("%s (%s)\n", c.Name, c.ID)
		if c.Code != "" {
			fmt.Printf("Code: %s\n", c.Code)
		}
		if c.Instructor != "" {
			fmt.Printf("Instructor: %s\n", c.Instructor)
		}
		fmt.Printf("Created: %s\n", c.CreatedAt.Format(core.DisplayTime))
		fmt.Printf("Study time: %d min over %d session(s)\n", c.StudyMinutes(), len(c.StudyLog))

		if len(c.Tasks) > 0 {
			fmt.Println("\nTasks:")
			for i, t := range c.Tasks {
				box := "[ ]"
				if t.Done {
					box = "[x]"
				}
				fmt.Printf("  %d. %s (%s) %s\n", i+1, box, t.Priority, t.Description)
			}
		}
		if len(c.Notes) > 0 {
			fmt.Println("\nNotes:")
			for i, n := range c.Notes {
				fmt.Printf("  %d. %s - %s\n", i+1, core.DisplayName(n.Kind), n.Title)
			}
		}
	},
}

var courseRenameCmd = &cobra.Command{
	Use:   "rename <course> <new-name>",
	Short: "Rename a course",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		c, err := svc.UpdateCourse(context.Background(), args[0], coursemate.UpdateCourse{Name: args[1]})
		if err != nil {
			fail(err)
		}
		fmt.Printf("Renamed to %s\n", c.Name)
	},
}

var courseRmCmd = &cobra.Command{
	Use:   "rm <course>",
	Short: "Delete a course and everything in it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}
		if err := svc.RemoveCourse(context.Background(), c.ID); err != nil {
			fail(err)
		}
		fmt.Printf("Removed %s\n", c.Name)
	},
}

func init() {
	rootCmd.AddCommand(courseCmd)
	courseCmd.AddCommand(courseAddCmd)
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseShowCmd)
	courseCmd.AddCommand(courseRenameCmd)
	courseCmd.AddCommand(courseRmCmd)

	courseAddCmd.Flags().StringVar(&courseCode, "code", "", "Course code, e.g. CS101")
	courseAddCmd.Flags().StringVar(&courseInstructor, "instructor", "", "Instructor name")
	courseListCmd.Flags().BoolVar(&courseJSON, "json", false, "Output in JSON format")
	courseListCmd.Flags().StringVar(&courseMatch, "match", "", "Filter courses by name glob")
}
