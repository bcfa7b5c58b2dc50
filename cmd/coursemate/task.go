package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursemate/coursemate"
	"github.com/coursemate/coursemate/pkg/core"
)

var (
	taskPriority   string
	taskOnlyDone   bool
	taskOnlyOpen   bool
	taskByPriority string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage course tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <course> <description>",
	Short: "Add a task to a course",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}
		t, err := svc.AddTask(context.Background(), c.ID, coursemate.NewTask{
			Description: args[1],
			Priority:    taskPriority,
		})
		if err != nil {
			fail(err)
		}
		fmt.Printf("Added task to %s: (%s) %s\n", c.Name, t.Priority, t.Description)
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list <course>",
	Short: "List tasks of a course",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if taskOnlyDone && taskOnlyOpen {
			fail(fmt.Errorf("--done and --pending exclude each other"))
		}

		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}

		filter := coursemate.TaskFilter{}
		if taskByPriority != "" {
			p, err := core.ParsePriority(taskByPriority)
			if err != nil {
				fail(err)
			}
			filter.Priority = p
		}
		if taskOnlyDone {
			done := true
			filter.Done = &done
		}
		if taskOnlyOpen {
			pending := false
			filter.Done = &pending
		}

		tasks, err := svc.Tasks(c.ID, filter)
		if err != nil {
			fail(err)
		}
		for i, t := range tasks {
			box := "[ ]"
			if t.Done {
				box = "[x]"
			}
			fmt.Printf("%d. %s (%s) %s\n", i+1, box, t.Priority, t.Description)
		}
	},
}

var taskToggleCmd = &cobra.Command{
	Use:   "toggle <course> <task>",
	Short: "Flip a task between pending and done",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}
		t, err := svc.ToggleTask(context.Background(), c.ID, args[1])
		if err != nil {
			fail(err)
		}
		state := "pending"
		if t.Done {
			state = "done"
		}
		fmt.Printf("Task is now %s: %s\n", state, t.Description)
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <course> <task>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}
		if err := svc.RemoveTask(context.Background(), c.ID, args[1]); err != nil {
			fail(err)
		}
		fmt.Println("Removed task.")
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskToggleCmd)
	taskCmd.AddCommand(taskRmCmd)

	taskAddCmd.Flags().StringVarP(&taskPriority, "priority", "p", "", "Priority (high, medium or low)")
	taskListCmd.Flags().BoolVar(&taskOnlyDone, "done", false, "Only completed tasks")
	taskListCmd.Flags().BoolVar(&taskOnlyOpen, "pending", false, "Only pending tasks")
	taskListCmd.Flags().StringVar(&taskByPriority, "priority", "", "Only tasks with this priority")
}
