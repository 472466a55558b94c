// Package config provides configuration loading and management for dossier.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/c360studio/dossier/storage"
	"gopkg.in/yaml.v3"
)

// Config represents the complete dossier configuration
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	HTML    HTMLConfig    `yaml:"html"`
	Status  StatusConfig  `yaml:"status"`
	Catalog CatalogConfig `yaml:"catalog"`
	Areas   AreasConfig   `yaml:"areas"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// InputConfig describes the survey export
type InputConfig struct {
	// Path is the export file (default: "PAM 2025_2.csv")
	Path string `yaml:"path"`
	// Delimiter is the single-character cell separator (default: ";")
	Delimiter string `yaml:"delimiter"`
	// Encoding is one of utf-8, utf-16, windows-1252, latin1
	Encoding string `yaml:"encoding"`
	// IdentityField is the given-names column
	IdentityField string `yaml:"identity_field"`
	// SurnameField is the surnames column
	SurnameField string `yaml:"surname_field"`
	// AreaField is the primary-area column
	AreaField string `yaml:"area_field"`
	// Placeholders are identity values dropped on exact match
	Placeholders []string `yaml:"placeholders"`
	// ShortPlaceholders are identity values dropped case-insensitively
	ShortPlaceholders []string `yaml:"short_placeholders"`
}

// OutputConfig names the four output trees
type OutputConfig struct {
	MarkdownDir     string `yaml:"markdown_dir"`
	HTMLDir         string `yaml:"html_dir"`
	MarkdownAreaDir string `yaml:"markdown_area_dir"`
	HTMLAreaDir     string `yaml:"html_area_dir"`
}

// HTMLConfig configures page rendering
type HTMLConfig struct {
	// Source is "document" (direct) or "markdown" (via goldmark)
	Source string `yaml:"source"`
}

// StatusConfig configures the status glyphs
type StatusConfig struct {
	// TableFile is the YAML classification table (missing = everyone confident)
	TableFile string `yaml:"table_file"`
	// Inline renders glyphs at creation time instead of annotating afterwards
	Inline bool `yaml:"inline"`
}

// CatalogConfig configures question labels
type CatalogConfig struct {
	// LabelsFile optionally overrides labels and exclusions
	LabelsFile string `yaml:"labels_file"`
}

// AreasConfig configures area organization
type AreasConfig struct {
	// IncludeUnspecified groups candidates without an area under "Sin especificar"
	IncludeUnspecified bool `yaml:"include_unspecified"`
	// ResultsLink is linked from the global index (empty = no link)
	ResultsLink string `yaml:"results_link"`
}

// MetricsConfig configures run metrics export
type MetricsConfig struct {
	// Textfile is where run metrics are written in Prometheus text format (empty = off)
	Textfile string `yaml:"textfile"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is the quiet period before a re-run (default: 500ms)
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Path:              "PAM 2025_2.csv",
			Delimiter:         ";",
			Encoding:          "utf-8",
			IdentityField:     "Nombres:",
			SurnameField:      "Apellidos:",
			AreaField:         "¿A qué área de ACECOM te gustaría postular? Principal interes.",
			Placeholders:      []string{"asdas"},
			ShortPlaceholders: []string{"i", "j", "asdas"},
		},
		Output: OutputConfig{
			MarkdownDir:     "perfiles_md",
			HTMLDir:         "perfiles_html",
			MarkdownAreaDir: "perfiles_por_area_md",
			HTMLAreaDir:     "perfiles_por_area_html",
		},
		HTML: HTMLConfig{
			Source: "document",
		},
		Status: StatusConfig{
			TableFile: "clasificacion.yaml",
		},
		Areas: AreasConfig{
			ResultsLink: "../resultados_ordenados.xlsx",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}
	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		return fmt.Errorf("input.delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	if c.Input.IdentityField == "" {
		return fmt.Errorf("input.identity_field is required")
	}
	switch c.Input.Encoding {
	case "", "utf-8", "utf-16", "windows-1252", "latin1":
	default:
		return fmt.Errorf("input.encoding %q is not supported", c.Input.Encoding)
	}

	dirs := map[string]string{
		"output.markdown_dir":      c.Output.MarkdownDir,
		"output.html_dir":          c.Output.HTMLDir,
		"output.markdown_area_dir": c.Output.MarkdownAreaDir,
		"output.html_area_dir":     c.Output.HTMLAreaDir,
	}
	seen := make(map[string]string, len(dirs))
	for name, dir := range dirs {
		if dir == "" {
			return fmt.Errorf("%s is required", name)
		}
		clean := filepath.Clean(dir)
		if other, dup := seen[clean]; dup {
			return fmt.Errorf("%s and %s must differ", other, name)
		}
		seen[clean] = name
	}

	switch c.HTML.Source {
	case "document", "markdown":
	default:
		return fmt.Errorf("html.source must be document or markdown, got %q", c.HTML.Source)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// Delimiter returns the cell separator as a rune
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Input.Delimiter)
	return r
}

// pathFields lists every file and directory setting.
func (c *Config) pathFields() []*string {
	return []*string{
		&c.Input.Path,
		&c.Output.MarkdownDir,
		&c.Output.HTMLDir,
		&c.Output.MarkdownAreaDir,
		&c.Output.HTMLAreaDir,
		&c.Status.TableFile,
		&c.Catalog.LabelsFile,
		&c.Metrics.Textfile,
	}
}

// ResolvePaths makes every relative file and directory path relative to base
func (c *Config) ResolvePaths(base string) {
	if base == "" {
		return
	}
	for _, p := range c.pathFields() {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// ApplyFile decodes a YAML file over c. Keys the file leaves out keep their
// current values; relative paths the file sets are resolved against the
// directory holding the file.
func (c *Config) ApplyFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return err
	}

	var set Config
	if err := yaml.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	base := filepath.Dir(abs)
	current := c.pathFields()
	for i, p := range set.pathFields() {
		if *p != "" && !filepath.IsAbs(*current[i]) {
			*current[i] = filepath.Join(base, *current[i])
		}
	}
	return nil
}

// SaveToFile writes c as YAML, creating parent directories. An existing file
// is replaced atomically.
func (c *Config) SaveToFile(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return storage.WriteFileAtomic(path, buf.Bytes())
}
