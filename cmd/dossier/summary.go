package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/dossier/config"
	"github.com/c360studio/dossier/pipeline"
	"github.com/c360studio/dossier/status"
	"github.com/c360studio/dossier/verify"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3498db")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7f8c8d")).
			Width(24)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#27ae60"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f39c12"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e74c3c")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#667eea")).
			Padding(0, 2)
)

func row(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

// printSummary writes the end-of-run report.
func printSummary(w io.Writer, cfg *config.Config, r *pipeline.Report) {
	var lines []string
	lines = append(lines, titleStyle.Render("🎉 Dossier "+shortID(r.RunID)))

	if r.Ran(pipeline.StageLoad) {
		lines = append(lines,
			row("📋 Candidatos", r.Accepted),
			row("🚫 Filas omitidas", r.Skipped))
		if r.Renamed > 0 {
			lines = append(lines, warnStyle.Render(row("⚠️  Nombres ajustados", r.Renamed)))
		}
	}
	if r.Ran(pipeline.StageMarkdown) {
		lines = append(lines, row("📝 Perfiles MD", fmt.Sprintf("%d → %s", r.Markdown, cfg.Output.MarkdownDir)))
	}
	if r.Ran(pipeline.StageHTML) {
		lines = append(lines, row("🌐 Perfiles HTML", fmt.Sprintf("%d → %s", r.HTML, cfg.Output.HTMLDir)))
	}
	if r.Ran(pipeline.StageAnnotate) {
		lines = append(lines,
			row(status.GlyphHesitant+" "+status.Hesitant.Label(), r.Hesitant),
			row(status.GlyphConfident+" "+status.Confident.Label(), r.Confident))
		if r.AlreadyAnnotated > 0 {
			lines = append(lines, row("⏭️  Ya marcados", r.AlreadyAnnotated))
		}
	}
	if r.Ran(pipeline.StageAreas) {
		lines = append(lines,
			row("🎯 Áreas", r.Areas),
			row("📁 Copias por área", r.AreaCopies))
		if r.Missing > 0 {
			lines = append(lines, warnStyle.Render(row("❓ No encontrados", r.Missing)))
		}
	}

	if len(r.Failures) == 0 {
		lines = append(lines, okStyle.Render("✅ Sin errores"))
	} else {
		lines = append(lines, errStyle.Render(fmt.Sprintf("❌ %d errores", len(r.Failures))))
		for _, f := range r.Failures {
			lines = append(lines, "   "+f.Error())
		}
	}

	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

// printTable lists the hesitant candidates with their reasons.
func printTable(w io.Writer, t *status.Table) {
	entries := t.Entries()
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s Candidatos %s (%d)", status.GlyphHesitant, status.Hesitant.Label(), len(entries))))
	for _, e := range entries {
		fmt.Fprintf(w, "  • %s: %s\n", strings.ReplaceAll(e.Stem, "_", " "), e.Reason)
	}
}

// printVerify writes a verification report.
func printVerify(w io.Writer, r verify.Report) {
	fmt.Fprintln(w, row("Perfiles revisados", r.Profiles))
	fmt.Fprintln(w, row("Copias por área", r.AreaFiles))
	if r.OK() {
		fmt.Fprintln(w, okStyle.Render("✅ Todo consistente"))
		return
	}
	for _, issue := range r.Issues {
		fmt.Fprintln(w, errStyle.Render("✗ ")+issue.String())
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
