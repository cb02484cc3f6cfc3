package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/xolan/timecard/internal/app"
	"github.com/xolan/timecard/internal/osutil"
)

// Helper to create a temporary config file
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "config.toml")
	// Always write the file, even if content is empty
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return tmpFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "warn" {
		t.Errorf("DefaultConfig().LogLevel = %q, expected %q", cfg.LogLevel, "warn")
	}
	if cfg.Parser.AssumePMAfter != 6 || cfg.Parser.DefaultShiftHours != 8 || cfg.Parser.MinConfidence != 0.5 {
		t.Errorf("DefaultConfig().Parser = %+v", cfg.Parser)
	}
	if cfg.Reconcile.Tolerance != 0.01 {
		t.Errorf("DefaultConfig().Reconcile.Tolerance = %g, expected 0.01", cfg.Reconcile.Tolerance)
	}
	if len(cfg.OCR.Languages) != 1 || cfg.OCR.Languages[0] != "eng" {
		t.Errorf("DefaultConfig().OCR.Languages = %v, expected [eng]", cfg.OCR.Languages)
	}
	if cfg.PDF.Layout.TableOrigin != (Point{X: 70, Y: 420}) || cfg.PDF.Layout.RowHeight != 20 {
		t.Errorf("DefaultConfig().PDF.Layout = %+v", cfg.PDF.Layout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() should be valid, got: %v", err)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `log_level = "debug"

[parser]
assume_pm_after = 7
default_shift_hours = 7.5
min_confidence = 0.3

[reconcile]
tolerance = 0.25

[ocr]
languages = ["eng", "spa"]
skip_lines = 2

[pdf]
template = "/forms/TimeCard.pdf"
employee = "Jane Doe"

[pdf.layout]
row_height = 22
table_origin = { x = 60, y = 400 }
`
	cfg, err := Load(createTempConfigFile(t, content))
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, expected %q", cfg.LogLevel, "debug")
	}
	opts := cfg.ParserOptions()
	if opts.AssumePMAfter != 7 || opts.DefaultShiftHours != 7.5 || opts.MinConfidence != 0.3 {
		t.Errorf("ParserOptions() = %+v", opts)
	}
	if cfg.Reconcile.Tolerance != 0.25 {
		t.Errorf("Tolerance = %g, expected 0.25", cfg.Reconcile.Tolerance)
	}
	if strings.Join(cfg.OCR.Languages, "+") != "eng+spa" || cfg.OCR.SkipLines != 2 {
		t.Errorf("OCR = %+v", cfg.OCR)
	}
	if cfg.PDF.Template != "/forms/TimeCard.pdf" || cfg.PDF.Employee != "Jane Doe" {
		t.Errorf("PDF = %+v", cfg.PDF)
	}
	if cfg.PDF.Layout.RowHeight != 22 || cfg.PDF.Layout.TableOrigin != (Point{X: 60, Y: 400}) {
		t.Errorf("Layout = %+v", cfg.PDF.Layout)
	}
	// Untouched layout keys keep their defaults
	if cfg.PDF.Layout.Columns != DefaultLayout().Columns {
		t.Errorf("Columns = %+v, expected defaults", cfg.PDF.Layout.Columns)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
	}{
		{"missing quote", `log_level = "debug`},
		{"bad section", `[parser`},
		{"wrong type", `[parser]
assume_pm_after = "six"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := createTempConfigFile(t, tt.configContent)

			_, err := Load(tmpFile)
			if err == nil {
				t.Fatal("Load() should return error for invalid TOML")
			}
			if !strings.Contains(err.Error(), "failed to parse config file") {
				t.Errorf("Error message should mention parsing failure, got: %v", err)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name           string
		configContent  string
		errorSubstring string
	}{
		{"log level", `log_level = "loud"`, "invalid log_level"},
		{"threshold", "[parser]\nassume_pm_after = 13", "assume_pm_after"},
		{"shift", "[parser]\ndefault_shift_hours = 0", "default_shift_hours"},
		{"confidence", "[parser]\nmin_confidence = 2", "min_confidence"},
		{"tolerance", "[reconcile]\ntolerance = -1", "tolerance"},
		{"languages", "[ocr]\nlanguages = []", "languages"},
		{"page seg mode", "[ocr]\npage_seg_mode = 14", "page_seg_mode"},
		{"ocr timeout", "[ocr]\ntimeout_seconds = 0", "timeout_seconds"},
		{"font", "[pdf.layout]\nfont = \"\"", "font must not be empty"},
		{"row height", "[pdf.layout]\nrow_height = -5", "row_height"},
		{"rows off page", "[pdf.layout]\nrow_height = 100", "below the page"},
		{"grid", "[pdf.layout]\ngrid = -25", "grid must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(createTempConfigFile(t, tt.configContent))
			if err == nil {
				t.Fatalf("Load() should return error for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.errorSubstring) {
				t.Errorf("Error should contain %q, got: %v", tt.errorSubstring, err)
			}
		})
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	nonExistentFile := filepath.Join(tmpDir, "does_not_exist.toml")

	cfg, err := LoadOrDefault(nonExistentFile)
	if err != nil {
		t.Fatalf("LoadOrDefault() returned unexpected error for non-existent file: %v", err)
	}

	defaultCfg := DefaultConfig()
	if cfg.LogLevel != defaultCfg.LogLevel || cfg.Parser != defaultCfg.Parser {
		t.Errorf("LoadOrDefault() = %+v, expected defaults", cfg)
	}
}

func TestLoadOrDefault_ExistingInvalidFile(t *testing.T) {
	// Invalid config file should return error, not default
	tmpFile := createTempConfigFile(t, `log_level = "verbose"`)

	_, err := LoadOrDefault(tmpFile)
	if err == nil {
		t.Fatal("LoadOrDefault() should return error for invalid config file")
	}
	if !strings.Contains(err.Error(), "invalid log_level") {
		t.Errorf("Error should mention invalid log_level, got: %v", err)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, ""))
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.PDF.Layout != DefaultLayout() {
		t.Errorf("empty file should keep the default layout, got %+v", cfg.PDF.Layout)
	}
}

func TestLoad_UnreadableFile(t *testing.T) {
	tmpFile := createTempConfigFile(t, `log_level = "info"`)

	// Make file unreadable
	if err := os.Chmod(tmpFile, 0000); err != nil {
		t.Skipf("Cannot change file permissions: %v", err)
	}
	defer func() { _ = os.Chmod(tmpFile, 0644) }()
	if _, err := os.ReadFile(tmpFile); err == nil {
		t.Skip("running with permissions that ignore file mode")
	}

	if _, err := Load(tmpFile); err == nil {
		t.Error("Load() should return error for unreadable file")
	}
	if _, err := LoadOrDefault(tmpFile); err == nil {
		t.Error("LoadOrDefault() should return error for unreadable file")
	}
}

func TestNormalize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "  DEBUG "
	cfg.OCR.Languages = []string{" ENG", "eng", "", "Spa"}
	cfg.PDF.Employee = "  Jane Doe  "

	cfg.Normalize()

	if cfg.LogLevel != "debug" {
		t.Errorf("After Normalize(), LogLevel = %q, expected %q", cfg.LogLevel, "debug")
	}
	if strings.Join(cfg.OCR.Languages, ",") != "eng,spa" {
		t.Errorf("After Normalize(), Languages = %v, expected [eng spa]", cfg.OCR.Languages)
	}
	if cfg.PDF.Employee != "Jane Doe" {
		t.Errorf("After Normalize(), Employee = %q, expected %q", cfg.PDF.Employee, "Jane Doe")
	}
}

func TestGetConfigPath(t *testing.T) {
	defer osutil.ResetProvider()
	tmpDir := t.TempDir()
	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) { return tmpDir, nil },
		mkdirAllFn:      os.MkdirAll,
	})

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned unexpected error: %v", err)
	}

	expected := filepath.Join(tmpDir, app.Name, ConfigFile)
	if path != expected {
		t.Errorf("GetConfigPath() = %q, expected %q", path, expected)
	}

	// Parent directory should exist (created by GetConfigPath)
	info, err := os.Stat(filepath.Dir(path))
	if err != nil || !info.IsDir() {
		t.Errorf("GetConfigPath() parent directory was not created: %v", err)
	}
}

func TestGenerateSampleConfig(t *testing.T) {
	content := GenerateSampleConfig()

	expectedStrings := []string{
		"# timecard configuration file",
		"[parser]",
		"# assume_pm_after = 6",
		"# default_shift_hours = 8",
		"[reconcile]",
		"# tolerance = 0.01",
		"[ocr]",
		"[pdf]",
		"[pdf.layout]",
		"# table_origin = { x = 70, y = 420 }",
		`# font = "Helvetica"`,
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(content, expected) {
			t.Errorf("GenerateSampleConfig() missing expected content: %q", expected)
		}
	}

	// Everything is commented out, so the sample decodes to the defaults
	cfg := DefaultConfig()
	if _, err := toml.Decode(content, &cfg); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sample config should validate, got: %v", err)
	}
}

func TestGenerateSampleConfig_UncommentedIsValid(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(GenerateSampleConfig(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}

	cfg, err := Load(createTempConfigFile(t, strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("uncommented sample config should load, got: %v", err)
	}
	if cfg.PDF.Employee != "Jane Doe" || cfg.PDF.Layout != DefaultLayout() {
		t.Errorf("uncommented sample config = %+v", cfg.PDF)
	}
}

func TestGetConfigPath_UserConfigDirError(t *testing.T) {
	defer osutil.ResetProvider()

	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) {
			return "", os.ErrPermission
		},
	})

	_, err := GetConfigPath()
	if err == nil {
		t.Error("GetConfigPath() should return error when UserConfigDir fails")
	}
}

func TestGetConfigPath_MkdirAllError(t *testing.T) {
	defer osutil.ResetProvider()

	tmpDir := t.TempDir()
	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) {
			return tmpDir, nil
		},
		mkdirAllFn: func(path string, perm os.FileMode) error {
			return os.ErrPermission
		},
	})

	_, err := GetConfigPath()
	if err == nil {
		t.Error("GetConfigPath() should return error when MkdirAll fails")
	}
}

// mockPathProvider is a test helper for mocking osutil.PathProvider
type mockPathProvider struct {
	userConfigDirFn func() (string, error)
	mkdirAllFn      func(path string, perm os.FileMode) error
}

func (m *mockPathProvider) UserConfigDir() (string, error) {
	if m.userConfigDirFn != nil {
		return m.userConfigDirFn()
	}
	return "", nil
}

func (m *mockPathProvider) MkdirAll(path string, perm os.FileMode) error {
	if m.mkdirAllFn != nil {
		return m.mkdirAllFn(path, perm)
	}
	return nil
}
