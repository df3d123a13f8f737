package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	opts := cfg.ParserOptions()
	if opts.GFM == nil || !*opts.GFM || opts.Math == nil || !*opts.Math {
		t.Errorf("ParserOptions() = %+v, want both enabled", opts)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	content := `parser:
  gfm: false
output:
  pretty: never
  indent: 4
cache:
  enabled: true
  max_entries: 10
`
	if err := os.MkdirAll(filepath.Join(dir, "mdast"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mdast", "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MDAST_PARSER_MATH", "false")
	t.Setenv("MDAST_OUTPUT_INDENT", "1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Parser.GFM {
		t.Error("parser.gfm from file not applied")
	}
	if cfg.Parser.Math {
		t.Error("MDAST_PARSER_MATH not applied")
	}
	if cfg.Output.Pretty != PrettyNever {
		t.Errorf("output.pretty = %q, want never", cfg.Output.Pretty)
	}
	if cfg.Output.Indent != 1 {
		t.Errorf("output.indent = %d, want 1 (env beats file)", cfg.Output.Indent)
	}
	if !cfg.Cache.Enabled || cfg.Cache.MaxEntries != 10 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("output:\n  pretty: always\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output.Pretty != PrettyAlways {
		t.Errorf("output.pretty = %q, want always", cfg.Output.Pretty)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"bad pretty", func(c *Config) { c.Output.Pretty = "sometimes" }, true},
		{"negative indent", func(c *Config) { c.Output.Indent = -1 }, true},
		{"huge indent", func(c *Config) { c.Output.Indent = 20 }, true},
		{"negative max entries", func(c *Config) { c.Cache.MaxEntries = -5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Parser.Math = false
	cfg.Output.Pretty = PrettyAlways
	cfg.Cache.Path = "/tmp/somewhere/cache.db"

	if err := Save(cfg, ""); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
