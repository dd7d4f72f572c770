package conf

import (
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~spc/go-log"
	"github.com/google/go-cmp/cmp"
)

// Helper functions for creating pointer values in DTO tests
func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }

func stringsPtr(s ...string) *[]string { return &s }

func TestConfig_Update(t *testing.T) {
	tests := []struct {
		name     string
		base     Config
		overlay  configDTO
		expected Config
	}{
		{
			name: "overlay replaces values",
			base: Config{
				TypoTolerance: true,
				LogLevel:      log.LevelError,
			},
			overlay: configDTO{
				TypoTolerance: boolPtr(false),
				LogLevel:      stringPtr("DEBUG"),
			},
			expected: Config{
				TypoTolerance: false,
				LogLevel:      log.LevelDebug,
			},
		},
		{
			name: "overlay partial update",
			base: Config{
				TypoTolerance: true,
				ExportIgnore:  []string{"*.bak"},
				LogLevel:      log.LevelError,
			},
			overlay: configDTO{
				Overwrite: boolPtr(true),
			},
			expected: Config{
				TypoTolerance: true,
				Overwrite:     true,
				ExportIgnore:  []string{"*.bak"},
				LogLevel:      log.LevelError,
			},
		},
		{
			name: "empty overlay does nothing",
			base: Config{
				TypoTolerance: true,
				LogLevel:      log.LevelInfo,
			},
			overlay: configDTO{},
			expected: Config{
				TypoTolerance: true,
				LogLevel:      log.LevelInfo,
			},
		},
		{
			name: "unknown log level is ignored",
			base: Config{
				LogLevel: log.LevelWarn,
			},
			overlay: configDTO{
				LogLevel: stringPtr("LOUD"),
			},
			expected: Config{
				LogLevel: log.LevelWarn,
			},
		},
		{
			name: "overlay can clear the ignore list",
			base: Config{
				ExportIgnore: []string{"*.bak", "notes/"},
			},
			overlay: configDTO{
				ExportIgnore: stringsPtr(),
			},
			expected: Config{
				ExportIgnore: nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.base
			result.Update(tt.overlay)
			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("Update() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigSource_ReadFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name        string
		fileContent string
		setupFile   bool
		expectError bool
		expected    Config
	}{
		{
			name: "valid config file",
			fileContent: `typo-tolerance = false
log-level = "debug"
export-ignore = ["*.bak", "notes/"]
`,
			setupFile:   true,
			expectError: false,
			expected: Config{
				TypoTolerance: false,
				LogLevel:      log.LevelDebug,
				ExportIgnore:  []string{"*.bak", "notes/"},
			},
		},
		{
			name:        "missing file uses defaults",
			setupFile:   false,
			expectError: false,
			expected: Config{
				TypoTolerance: true,
				LogLevel:      log.LevelError, // from defaults
			},
		},
		{
			name:        "malformed file fails",
			fileContent: "typo-tolerance = maybe",
			setupFile:   true,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(tmpDir, "test-"+tt.name+".toml")

			if tt.setupFile {
				if err := os.WriteFile(testFile, []byte(tt.fileContent), 0644); err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			}

			source := &ConfigSource{Path: testFile, DropInDir: filepath.Join(tmpDir, "nonexistent")}
			result, err := source.Read()

			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.expectError {
				if diff := cmp.Diff(tt.expected, result); diff != "" {
					t.Errorf("Read() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestParseConfigDTO(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		expected    configDTO
	}{
		{
			name: "valid TOML string",
			input: `
overwrite = true
export-ignore = ["textures/"]
`,
			expectError: false,
			expected: configDTO{
				Overwrite:    boolPtr(true),
				ExportIgnore: stringsPtr("textures/"),
			},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: false,
			expected:    configDTO{},
		},
		{
			name:        "invalid TOML",
			input:       "not valid toml ===",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseConfigDTO(tt.input)

			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.expectError {
				if diff := cmp.Diff(tt.expected, result); diff != "" {
					t.Errorf("parseConfigDTO() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestConfigSource_FullStack(t *testing.T) {
	tmpDir := t.TempDir()
	mainConfigPath := filepath.Join(tmpDir, "config.toml")
	dropinDir := filepath.Join(tmpDir, "config.toml.d")

	if err := os.Mkdir(dropinDir, 0755); err != nil {
		t.Fatalf("failed to create drop-in directory: %v", err)
	}

	t.Run("full configuration stack", func(t *testing.T) {
		mainConfig := `
typo-tolerance = false
log-level = "info"
export-ignore = ["*.bak"]
`
		if err := os.WriteFile(mainConfigPath, []byte(mainConfig), 0644); err != nil {
			t.Fatalf("failed to write main config: %v", err)
		}

		// Write drop-in files (should be loaded in lexicographic order)
		dropinFiles := map[string]string{
			"10-overwrite.toml": `overwrite = true`,
			"20-debug.toml":     `log-level = "debug"`,
			"30-ignore.toml":    `export-ignore = ["notes/"]`,
		}

		for filename, content := range dropinFiles {
			path := filepath.Join(dropinDir, filename)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write drop-in file %s: %v", filename, err)
			}
		}

		cs := Source(mainConfigPath)
		config, err := cs.Read()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Defaults < Main < Drop-ins (in order)
		expected := Config{
			TypoTolerance: false,
			LogLevel:      log.LevelDebug,
			Overwrite:     true,
			ExportIgnore:  []string{"notes/"},
		}
		if diff := cmp.Diff(expected, config); diff != "" {
			t.Errorf("Read() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("drop-in shadowing", func(t *testing.T) {
		tmpDir2 := t.TempDir()
		mainPath2 := filepath.Join(tmpDir2, "config.toml")
		dropinDir2 := filepath.Join(tmpDir2, "config.toml.d")
		os.Mkdir(dropinDir2, 0755)

		os.WriteFile(mainPath2, []byte(`log-level = "info"`), 0644)

		os.WriteFile(filepath.Join(dropinDir2, "10-first.toml"), []byte(`log-level = "warn"`), 0644)
		os.WriteFile(filepath.Join(dropinDir2, "20-second.toml"), []byte(`log-level = "trace"`), 0644)

		cs := &ConfigSource{Path: mainPath2, DropInDir: dropinDir2}
		config, err := cs.Read()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// The last drop-in (20-second.toml) should win
		if config.LogLevel != log.LevelTrace {
			t.Errorf("expected LogLevel=trace, got %v", config.LogLevel)
		}
	})
}

func TestConfigSource_MissingDropinDir(t *testing.T) {
	tmpDir := t.TempDir()
	mainConfigPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(mainConfigPath, []byte(`log-level = "info"`), 0644); err != nil {
		t.Fatalf("failed to write main config: %v", err)
	}

	// Should not error when drop-in directory is missing
	config, err := Source(mainConfigPath).Read()
	if err != nil {
		t.Fatalf("unexpected error when drop-in dir missing: %v", err)
	}

	if config.LogLevel != log.LevelInfo {
		t.Errorf("expected LogLevel=info, got %v", config.LogLevel)
	}
}

func TestDefaultSource(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	expected := &ConfigSource{
		Path:      "/tmp/xdg/ltxdiff/config.toml",
		DropInDir: "/tmp/xdg/ltxdiff/config.toml.d",
	}
	if diff := cmp.Diff(expected, DefaultSource()); diff != "" {
		t.Errorf("DefaultSource() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedDefault(t *testing.T) {
	dto, err := parseConfigDTO(defaultConfig)
	if err != nil {
		t.Fatalf("embedded default config is invalid: %v", err)
	}

	config := Config{}
	config.Update(dto)

	if !config.TypoTolerance {
		t.Errorf("expected typo tolerance to be on by default")
	}
	if config.Overwrite {
		t.Errorf("expected overwrite to be off by default")
	}
	if config.LogLevel != log.LevelError {
		t.Errorf("expected LogLevel=error, got %v", config.LogLevel)
	}
	if config.ExportIgnore != nil {
		t.Errorf("expected no ignore patterns, got %v", config.ExportIgnore)
	}
}
