// Package main provides the dossier binary entry point.
// Dossier turns a survey export into per-candidate profile documents,
// marks each with a status glyph and regroups them by area of interest.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/c360studio/dossier/config"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "dossier"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	dir        string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Generate candidate profiles from a survey export",
		Long: `Dossier turns a semicolon-delimited survey export into one profile
per candidate, in Markdown and HTML, marks each profile with a status
glyph and regroups the profiles by primary area of interest.

Running dossier without a subcommand runs every stage:
- load the export and drop placeholder rows
- write perfiles_md/{name}.md
- write perfiles_html/{name}.html and index.html
- annotate titles with 🟡 / 🟢
- build perfiles_por_area_{md,html} with area and global indexes`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(cmd, g)
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.dir, "dir", ".", "Directory holding the export and outputs")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		initCmd(g),
		stageCmd(g, "run", "Run every stage"),
		stageCmd(g, "profiles", "Load the export and write Markdown profiles", stageMarkdown),
		stageCmd(g, "html", "Load the export and write HTML pages and the collection index", stageHTML),
		annotateCmd(g),
		stageCmd(g, "areas", "Load the export and rebuild the per-area trees", stageAreas),
		verifyCmd(g),
		showCmd(g),
		watchCmd(g),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// newLogger builds the process logger from --log-level.
func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// setup resolves the working directory, configures logging and loads the
// layered configuration.
func (g *globals) setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	logger := newLogger(cmd.ErrOrStderr(), g.logLevel)

	dir, err := filepath.Abs(g.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve dir: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("stat dir: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("not a directory: %s", dir)
	}

	cfg, err := config.NewLoader(dir, logger).Load(g.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger, nil
}
