package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var scratchCmd = &cobra.Command{
	Use:   "scratch [show|edit|clear]",
	Short: "Show or rewrite the global scratchpad",
	Long: `The scratchpad is a single free-text page outside any course. 'edit' reads
the new content from standard input until EOF.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		action := "show"
		if len(args) > 0 {
			action = strings.ToLower(args[0])
		}

		svc := openService()
		ctx := context.Background()

		switch action {
		case "show":
			text, err := svc.Scratchpad(ctx)
			if err != nil {
				fail(err)
			}
			if strings.TrimSpace(text) == "" {
				fmt.Println("Scratchpad is empty.")
				return
			}
			fmt.Println(text)
		case "edit":
			data, err := io.ReadAll(bufio.NewReader(os.Stdin))
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			if err := svc.SetScratchpad(ctx, string(data)); err != nil {
				fail(err)
			}
			fmt.Println("Scratchpad saved.")
		case "clear":
			if err := svc.SetScratchpad(ctx, ""); err != nil {
				fail(err)
			}
			fmt.Println("Scratchpad cleared.")
		default:
			fail(fmt.Errorf("unknown action %q (want show, edit or clear)", args[0]))
		}
	},
}

func init() {
	rootCmd.AddCommand(scratchCmd)
}
