package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/dossier/config"
	"github.com/c360studio/dossier/pipeline"
	"github.com/c360studio/dossier/source"
	"github.com/c360studio/dossier/verify"
	"github.com/c360studio/dossier/watch"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	stageMarkdown = pipeline.StageMarkdown
	stageHTML     = pipeline.StageHTML
	stageAnnotate = pipeline.StageAnnotate
	stageAreas    = pipeline.StageAreas
)

func stageCmd(g *globals, use, short string, stages ...pipeline.Stage) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(cmd, g, stages...)
		},
	}
}

// runStages runs the given stages, or all of them when none are given, and
// prints the summary.
func runStages(cmd *cobra.Command, g *globals, stages ...pipeline.Stage) error {
	cfg, logger, err := g.setup(cmd)
	if err != nil {
		return err
	}
	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	if len(stages) == 0 {
		stages = pipeline.AllStages()
	}

	report, err := p.RunStages(cmd.Context(), stages...)
	if report != nil {
		printSummary(cmd.OutOrStdout(), cfg, report)
	}
	return err
}

func annotateCmd(g *globals) *cobra.Command {
	var listTable bool

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Add status glyphs to existing profile titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup(cmd)
			if err != nil {
				return err
			}
			p, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}
			if listTable {
				printTable(cmd.OutOrStdout(), p.Table())
			}
			report, err := p.RunStages(cmd.Context(), stageAnnotate)
			if report != nil {
				printSummary(cmd.OutOrStdout(), cfg, report)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&listTable, "list", false, "Print the hesitant candidates and their reasons first")
	return cmd
}

func verifyCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that Markdown, HTML and area trees agree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup(cmd)
			if err != nil {
				return err
			}
			checker := verify.NewChecker(verify.Options{
				MarkdownDir:     cfg.Output.MarkdownDir,
				HTMLDir:         cfg.Output.HTMLDir,
				MarkdownAreaDir: cfg.Output.MarkdownAreaDir,
				HTMLAreaDir:     cfg.Output.HTMLAreaDir,
			}, logger)

			report, err := checker.Check(cmd.Context())
			if err != nil {
				return err
			}
			printVerify(cmd.OutOrStdout(), report)
			if !report.OK() {
				return fmt.Errorf("%d issues found", len(report.Issues))
			}
			return nil
		},
	}
}

func showCmd(g *globals) *cobra.Command {
	var (
		raw   bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Render a candidate's Markdown profile in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.setup(cmd)
			if err != nil {
				return err
			}

			path := filepath.Join(cfg.Output.MarkdownDir, source.SanitizeStem(args[0])+".md")
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("profile %q: %w", args[0], err)
			}
			if raw {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}
			out, err := renderer.Render(string(data))
			if err != nil {
				return fmt.Errorf("render profile: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the Markdown source")
	cmd.Flags().IntVar(&width, "width", 80, "Word wrap width")
	return cmd
}

func watchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run every stage, then again whenever the export or tables change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			rerun := func(ctx context.Context) error {
				// Rebuild so table and catalog edits are picked up.
				p, err := pipeline.New(cfg, logger)
				if err != nil {
					return err
				}
				report, err := p.Run(ctx)
				if report != nil {
					printSummary(out, cfg, report)
				}
				return err
			}

			if err := rerun(cmd.Context()); err != nil {
				logger.Error("Initial run failed", "error", err)
			}

			w, err := watch.New(
				[]string{cfg.Input.Path, cfg.Status.TableFile, cfg.Catalog.LabelsFile},
				cfg.Watch.Debounce,
				rerun,
				logger,
			)
			if err != nil {
				return err
			}
			return w.Run(cmd.Context())
		},
	}
}

func initCmd(g *globals) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write " + config.ProjectConfigFile + " with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(g.dir)
			if err != nil {
				return fmt.Errorf("resolve dir: %w", err)
			}
			path := filepath.Join(dir, config.ProjectConfigFile)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.DefaultConfig().SaveToFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
