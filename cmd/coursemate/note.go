package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursemate/coursemate"
	"github.com/coursemate/coursemate/pkg/core"
)

var (
	noteKind  string
	noteTitle string
	noteJSON  bool
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage templated notes",
}

var noteNewCmd = &cobra.Command{
	Use:   "new <course>",
	Short: "Write a note from a template",
	Long: `Create a note in the given course. The template sections are prompted on
standard input, one line each; Freeform notes read lines until a single '.'.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}

		in := bufio.NewScanner(os.Stdin)
		in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		var k core.Kind
		if noteKind != "" {
			k, err = coursemate.ParseKind(noteKind)
		} else {
			for i, tpl := range coursemate.Templates() {
				fmt.Printf("  %d. %s\n", i+1, tpl.Name)
			}
			fmt.Print("Template: ")
			if !in.Scan() {
				return
			}
			k, err = parseKindChoice(in.Text())
		}
		if err != nil {
			fail(err)
		}

		title := noteTitle
		if title == "" {
			fmt.Print("Title: ")
			if !in.Scan() {
				return
			}
			title = in.Text()
		}

		content := make(map[string]string)
		if k == core.KindFreeform {
			fmt.Println("Write your note. Finish with a single '.' on its own line.")
			var lines []string
			for in.Scan() {
				line := in.Text()
				if strings.TrimSpace(line) == "." {
					break
				}
				lines = append(lines, line)
			}
			content["Text"] = strings.Join(lines, "\n")
		} else {
			fmt.Println("Fill the sections. Leave one empty to skip it.")
			for _, key := range core.Sections(k) {
				fmt.Print(key + ": ")
				if !in.Scan() {
					break
				}
				content[key] = in.Text()
			}
		}

		n, err := svc.AddNote(context.Background(), c.ID, coursemate.NewNote{
			Title:   strings.TrimSpace(title),
			Kind:    string(k),
			Content: content,
		})
		if err != nil {
			fail(err)
		}
		fmt.Printf("Saved %s note %q in %s.\n", core.DisplayName(n.Kind), n.Title, c.Name)
	},
}

// parseKindChoice accepts a 1-based catalog position or a kind name.
func parseKindChoice(choice string) (core.Kind, error) {
	choice = strings.TrimSpace(choice)
	kinds := coursemate.Kinds()
	if i, err := strconv.Atoi(choice); err == nil {
		if i < 1 || i > len(kinds) {
			return "", fmt.Errorf("template number out of range (1-%d)", len(kinds))
		}
		return kinds[i-1], nil
	}
	return coursemate.ParseKind(choice)
}

var noteListCmd = &cobra.Command{
	Use:   "list <course>",
	Short: "List notes of a course",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}
		notes, err := svc.Notes(c.ID)
		if err != nil {
			fail(err)
		}

		if noteJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for i, n := range notes {
			fmt.Printf("%d. %s - %s (%s)\n", i+1, core.DisplayName(n.Kind), n.Title, n.UpdatedAt.Format(core.DisplayTime))
		}
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <course> <note>",
	Short: "Show one note in full",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}
		n, err := svc.FindNote(c.ID, args[1])
		if err != nil {
			fail(err)
		}

		fmt.Printf("%s - %s\n", core.DisplayName(n.Kind), n.Title)
		fmt.Printf("Created %s, updated %s\n", n.CreatedAt.Format(core.DisplayTime), n.UpdatedAt.Format(core.DisplayTime))
		for _, key := range core.Sections(n.Kind) {
			text := n.Content[key]
			if strings.TrimSpace(text) == "" {
				continue
			}
			fmt.Printf("\n%s:\n%s\n", key, text)
		}
	},
}

var noteRmCmd = &cobra.Command{
	Use:   "rm <course> <note>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		c, err := svc.FindCourse(args[0])
		if err != nil {
			fail(err)
		}
		n, err := svc.FindNote(c.ID, args[1])
		if err != nil {
			fail(err)
		}
		if err := svc.RemoveNote(context.Background(), c.ID, n.ID); err != nil {
			fail(err)
		}
		fmt.Printf("Removed note %q from %s.\n", n.Title, c.Name)
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteNewCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteRmCmd)

	noteNewCmd.Flags().StringVarP(&noteKind, "kind", "k", "", "Template kind, e.g. cornell or main-idea")
	noteNewCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
	noteListCmd.Flags().BoolVar(&noteJSON, "json", false, "Output in JSON format")
}
