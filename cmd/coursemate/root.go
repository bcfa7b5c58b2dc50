package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/coursemate/coursemate"
	"github.com/coursemate/coursemate/internal/config"
	"github.com/coursemate/coursemate/internal/session"
)

var (
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coursemate",
	Short: "Organize courses, templated notes, tasks and study time from the terminal",
	Long: `CourseMate keeps a student's courses, notes, to-do lists and study log in
one JSON document. Run it bare for the interactive session, or use the
subcommands for one-shot scripted access.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		s := session.New(session.Config{
			Service: svc,
			Version: coursemate.Version,
		})
		if err := s.Run(context.Background()); err != nil {
			fatal("Session ended", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("data", ".", "Directory holding the data file")
	rootCmd.PersistentFlags().String("storage", config.StorageFile, "Storage backend (file or s3)")
	rootCmd.PersistentFlags().Bool("read-only", false, "Reject every mutation")
}

// openService resolves the configuration and opens the service on the
// configured backend. Every command goes through here.
func openService() *coursemate.Service {
	settings, err := config.Load(rootCmd.PersistentFlags())
	if err != nil {
		fatal("Failed to load configuration", err)
	}

	opts := []coursemate.Option{
		coursemate.WithStorage(settings.Storage),
		coursemate.WithDataFile(settings.DataFile),
		coursemate.WithReadOnly(settings.ReadOnly),
		coursemate.WithLogger(slog.Default()),
	}
	if settings.Storage == config.StorageS3 {
		opts = append(opts, coursemate.WithS3(coursemate.S3Options{
			Bucket:       settings.S3.Bucket,
			Region:       settings.S3.Region,
			Endpoint:     settings.S3.Endpoint,
			AccessKey:    settings.S3.AccessKey,
			SecretKey:    settings.S3.SecretKey,
			UsePathStyle: settings.S3.UsePathStyle,
		}))
	}

	svc, err := coursemate.Open(context.Background(), settings.DataDir, opts...)
	if err != nil {
		fatal("Failed to open the data store", err)
	}
	return svc
}
