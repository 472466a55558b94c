package verify

import (
	"strings"

	"github.com/c360studio/dossier/profile"
	"github.com/c360studio/dossier/status"
)

// Outline is the comparable shape of a profile: its level-1 heading and
// each level-2 section with whitespace-normalized body text.
type Outline struct {
	Heading  string
	Sections []profile.Section
}

// ParseMarkdown reads the outline of a profile rendered as Markdown.
func ParseMarkdown(content string) Outline {
	var out Outline
	var body []string
	current := -1

	flush := func() {
		if current >= 0 {
			out.Sections[current].Body = profile.CleanText(strings.Join(body, " "))
		}
		body = body[:0]
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "## "):
			flush()
			out.Sections = append(out.Sections, profile.Section{Label: strings.TrimSpace(trimmed[3:])})
			current = len(out.Sections) - 1
		case strings.HasPrefix(trimmed, "# "):
			if out.Heading == "" {
				out.Heading = strings.TrimSpace(trimmed[2:])
			}
		case isRule(trimmed):
			flush()
			current = -1
		case trimmed != "" && current >= 0:
			body = append(body, trimmed)
		}
	}
	flush()

	return out
}

func isRule(line string) bool {
	switch strings.ReplaceAll(line, " ", "") {
	case "---", "***", "___":
		return true
	}
	return false
}

// ExpectedPageTitle derives the <title> text that accompanies a heading,
// e.g. "🟡 👤 Perfil de Dante" pairs with "🟡 Perfil - Dante".
func ExpectedPageTitle(heading string) string {
	return strings.Replace(heading, status.ProfileEmoji+" Perfil de ", "Perfil - ", 1)
}
