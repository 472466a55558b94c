package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Input.Path != "PAM 2025_2.csv" {
		t.Errorf("expected default input PAM 2025_2.csv, got %s", cfg.Input.Path)
	}
	if cfg.Delimiter() != ';' {
		t.Errorf("expected default delimiter ';', got %q", cfg.Delimiter())
	}
	if cfg.Output.HTMLAreaDir != "perfiles_por_area_html" {
		t.Errorf("expected default html area dir perfiles_por_area_html, got %s", cfg.Output.HTMLAreaDir)
	}
	if cfg.HTML.Source != "document" {
		t.Errorf("expected default html source document, got %s", cfg.HTML.Source)
	}
	if cfg.Status.Inline {
		t.Error("expected annotation stage (not inline status) by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing input path",
			modify:  func(c *Config) { c.Input.Path = "" },
			wantErr: true,
		},
		{
			name:    "multi-character delimiter",
			modify:  func(c *Config) { c.Input.Delimiter = ";;" },
			wantErr: true,
		},
		{
			name:    "tab delimiter",
			modify:  func(c *Config) { c.Input.Delimiter = "\t" },
			wantErr: false,
		},
		{
			name:    "unknown encoding",
			modify:  func(c *Config) { c.Input.Encoding = "ebcdic" },
			wantErr: true,
		},
		{
			name:    "missing identity field",
			modify:  func(c *Config) { c.Input.IdentityField = "" },
			wantErr: true,
		},
		{
			name:    "missing output dir",
			modify:  func(c *Config) { c.Output.HTMLDir = "" },
			wantErr: true,
		},
		{
			name:    "overlapping output dirs",
			modify:  func(c *Config) { c.Output.HTMLAreaDir = "./perfiles_html" },
			wantErr: true,
		},
		{
			name:    "unknown html source",
			modify:  func(c *Config) { c.HTML.Source = "pdf" },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Watch.Debounce = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
input:
  path: "PAM 2026_1.csv"
  delimiter: ","
  placeholders: ["test", "asdas"]
output:
  html_dir: "web"
html:
  source: markdown
status:
  table_file: "estados.yaml"
  inline: true
areas:
  include_unspecified: true
  results_link: ""
metrics:
  textfile: "/var/lib/dossier.prom"
watch:
  debounce: 2s
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyFile(configPath); err != nil {
		t.Fatalf("ApplyFile() error = %v", err)
	}

	if cfg.Input.Path != filepath.Join(tmpDir, "PAM 2026_1.csv") {
		t.Errorf("expected input next to the config file, got %s", cfg.Input.Path)
	}
	if cfg.Delimiter() != ',' {
		t.Errorf("expected delimiter ',', got %q", cfg.Delimiter())
	}
	if len(cfg.Input.Placeholders) != 2 {
		t.Errorf("expected 2 placeholders, got %d", len(cfg.Input.Placeholders))
	}
	if cfg.Input.IdentityField != "Nombres:" {
		t.Errorf("expected identity field to keep default, got %s", cfg.Input.IdentityField)
	}
	if cfg.Output.HTMLDir != filepath.Join(tmpDir, "web") {
		t.Errorf("expected html dir next to the config file, got %s", cfg.Output.HTMLDir)
	}
	if cfg.Output.MarkdownDir != "perfiles_md" {
		t.Errorf("expected unset markdown dir to stay relative, got %s", cfg.Output.MarkdownDir)
	}
	if cfg.Status.TableFile != filepath.Join(tmpDir, "estados.yaml") {
		t.Errorf("expected table file next to the config file, got %s", cfg.Status.TableFile)
	}
	if cfg.Metrics.Textfile != "/var/lib/dossier.prom" {
		t.Errorf("expected absolute textfile untouched, got %s", cfg.Metrics.Textfile)
	}
	if cfg.HTML.Source != "markdown" {
		t.Errorf("expected html source markdown, got %s", cfg.HTML.Source)
	}
	if !cfg.Status.Inline {
		t.Error("expected inline status")
	}
	if !cfg.Areas.IncludeUnspecified {
		t.Error("expected include_unspecified")
	}
	if cfg.Areas.ResultsLink != "" {
		t.Errorf("expected empty results link, got %s", cfg.Areas.ResultsLink)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", cfg.Watch.Debounce)
	}
}

func TestApplyFile_SwitchesBoolOff(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("status:\n  inline: false\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Status.Inline = true
	if err := cfg.ApplyFile(configPath); err != nil {
		t.Fatalf("ApplyFile() error = %v", err)
	}
	if cfg.Status.Inline {
		t.Error("expected a later file to switch inline status off")
	}
	if cfg.Status.TableFile != "clasificacion.yaml" {
		t.Errorf("expected table file to remain default, got %s", cfg.Status.TableFile)
	}
}

func TestApplyFile_Invalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("input: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := DefaultConfig().ApplyFile(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestResolvePaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.HTMLDir = "/srv/perfiles"
	cfg.ResolvePaths("/data/pam")

	if cfg.Input.Path != filepath.Join("/data/pam", "PAM 2025_2.csv") {
		t.Errorf("expected input under base, got %s", cfg.Input.Path)
	}
	if cfg.Output.HTMLDir != "/srv/perfiles" {
		t.Errorf("expected absolute dir untouched, got %s", cfg.Output.HTMLDir)
	}
	if cfg.Catalog.LabelsFile != "" {
		t.Errorf("expected empty labels file to stay empty, got %s", cfg.Catalog.LabelsFile)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.HTML.Source = "markdown"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded := &Config{}
	if err := loaded.ApplyFile(configPath); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.HTML.Source != "markdown" {
		t.Errorf("expected html source markdown, got %s", loaded.HTML.Source)
	}
	if loaded.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected debounce to round-trip, got %v", loaded.Watch.Debounce)
	}
	if loaded.Output.MarkdownDir != filepath.Join(tmpDir, "subdir", "perfiles_md") {
		t.Errorf("expected saved relative dir to load next to the file, got %s", loaded.Output.MarkdownDir)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("saved config does not validate: %v", err)
	}
}
