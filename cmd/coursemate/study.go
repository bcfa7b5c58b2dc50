package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursemate/coursemate"
	"github.com/coursemate/coursemate/pkg/core"
)

var (
	studyMinutes int
	studyMode    string
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Track study time",
}

var studyLogCmd = &cobra.Command{
	Use:   "log <course>",
	Short: "Log a block of study time for a course",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mode, err := core.ParseStudyMode(studyMode)
		if err != nil {
			fail(err)
		}

		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}
		if _, err := svc.LogStudy(context.Background(), c.ID, coursemate.NewStudySession{
			Minutes: studyMinutes,
			Mode:    string(mode),
		}); err != nil {
			fail(err)
		}

		c, err = svc.FindCourse(c.ID)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Logged %d min for %s (%d min total).\n", studyMinutes, c.Name, c.StudyMinutes())
	},
}

func init() {
	rootCmd.AddCommand(studyCmd)
	studyCmd.AddCommand(studyLogCmd)

	studyLogCmd.Flags().IntVarP(&studyMinutes, "minutes", "m", 0, "Minutes studied")
	studyLogCmd.Flags().StringVar(&studyMode, "mode", "", "Session mode (focus, short-break or long-break)")
	studyLogCmd.MarkFlagRequired("minutes")
}
