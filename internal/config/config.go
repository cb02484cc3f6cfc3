package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/xolan/timecard/internal/app"
	"github.com/xolan/timecard/internal/entry"
	"github.com/xolan/timecard/internal/osutil"
	"github.com/xolan/timecard/internal/week"
)

const (
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
)

// ValidLogLevels lists the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config represents the application configuration
type Config struct {
	// LogLevel is the minimum level written to stderr
	LogLevel  string    `toml:"log_level"`
	Parser    Parser    `toml:"parser"`
	Reconcile Reconcile `toml:"reconcile"`
	OCR       OCR       `toml:"ocr"`
	PDF       PDF       `toml:"pdf"`
}

// Parser holds the time parser settings.
type Parser struct {
	// AssumePMAfter: an unmarked hour below this is read as afternoon
	AssumePMAfter int `toml:"assume_pm_after"`
	// DefaultShiftHours fills the missing end of a half-legible shift
	DefaultShiftHours float64 `toml:"default_shift_hours"`
	// MinConfidence is the OCR confidence floor, 0 to 1
	MinConfidence float64 `toml:"min_confidence"`
}

// Reconcile holds the totals reconciler settings.
type Reconcile struct {
	// Tolerance in hours before a handwritten total counts as a mismatch
	Tolerance float64 `toml:"tolerance"`
}

// OCR holds the text recognition settings.
type OCR struct {
	// Languages are Tesseract language codes
	Languages []string `toml:"languages"`
	// PageSegMode is the Tesseract page segmentation mode
	PageSegMode int `toml:"page_seg_mode"`
	// Whitelist restricts the characters Tesseract may emit; empty means all
	Whitelist string `toml:"whitelist"`
	// MinWidth upscales narrower photos before recognition; 0 disables it
	MinWidth int `toml:"min_width"`
	// SkipLines drops this many leading lines (form headers)
	SkipLines int `toml:"skip_lines"`
	// TimeoutSeconds bounds a single recognition call
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// PDF holds the form filling settings.
type PDF struct {
	// Template is the path to the blank agency form
	Template string `toml:"template"`
	// Employee is printed in the header and on the signature line
	Employee string `toml:"employee"`
	// Client is printed on every weekday row
	Client string `toml:"client"`
	// TimeoutSeconds bounds a single fill call
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Layout         Layout `toml:"layout"`
}

// Point is a position on the form in PDF points from the bottom-left corner.
type Point struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

// Columns are the x positions of the weekday row cells.
type Columns struct {
	Client float64 `toml:"client"`
	Date   float64 `toml:"date"`
	Start  float64 `toml:"start"`
	End    float64 `toml:"end"`
	Hours  float64 `toml:"hours"`
}

// Layout places every field on the form.
type Layout struct {
	TableOrigin   Point   `toml:"table_origin"`
	RowHeight     float64 `toml:"row_height"`
	Columns       Columns `toml:"columns"`
	EmployeeName  Point   `toml:"employee_name"`
	PeriodFrom    Point   `toml:"period_from"`
	PeriodTo      Point   `toml:"period_to"`
	TotalHours    Point   `toml:"total_hours"`
	SignatureName Point   `toml:"signature_name"`
	SignatureDate Point   `toml:"signature_date"`
	Font          string  `toml:"font"`
	FontSize      int     `toml:"font_size"`
	HeaderSize    int     `toml:"header_font_size"`
	// Grid is the spacing in points of a calibration grid stamped under
	// the text. Zero draws none.
	Grid float64 `toml:"grid"`
}

// DefaultLayout returns the coordinates that line up with the landscape
// letter agency form.
func DefaultLayout() Layout {
	return Layout{
		TableOrigin:   Point{X: 70, Y: 420},
		RowHeight:     20,
		Columns:       Columns{Client: 70, Date: 350, Start: 420, End: 500, Hours: 580},
		EmployeeName:  Point{X: 120, Y: 480},
		PeriodFrom:    Point{X: 550, Y: 498},
		PeriodTo:      Point{X: 650, Y: 498},
		TotalHours:    Point{X: 580, Y: 285},
		SignatureName: Point{X: 150, Y: 115},
		SignatureDate: Point{X: 440, Y: 180},
		Font:          "Helvetica",
		FontSize:      10,
		HeaderSize:    11,
	}
}

// DefaultConfig returns a Config with the defaults used when no file exists.
func DefaultConfig() Config {
	opts := entry.DefaultOptions()
	return Config{
		LogLevel: "warn",
		Parser: Parser{
			AssumePMAfter:     opts.AssumePMAfter,
			DefaultShiftHours: opts.DefaultShiftHours,
			MinConfidence:     opts.MinConfidence,
		},
		Reconcile: Reconcile{Tolerance: week.DefaultTolerance},
		OCR: OCR{
			Languages:      []string{"eng"},
			PageSegMode:    6,
			MinWidth:       1600,
			TimeoutSeconds: 60,
		},
		PDF: PDF{
			TimeoutSeconds: 30,
			Layout:         DefaultLayout(),
		},
	}
}

// ParserOptions converts the [parser] section into parser options.
func (c Config) ParserOptions() entry.Options {
	return entry.Options{
		AssumePMAfter:     c.Parser.AssumePMAfter,
		DefaultShiftHours: c.Parser.DefaultShiftHours,
		MinConfidence:     c.Parser.MinConfidence,
	}
}

// Normalize cleans up values in place: case and whitespace of names,
// duplicate languages.
func (c *Config) Normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.PDF.Template = strings.TrimSpace(c.PDF.Template)
	c.PDF.Employee = strings.TrimSpace(c.PDF.Employee)
	c.PDF.Client = strings.TrimSpace(c.PDF.Client)
	c.PDF.Layout.Font = strings.TrimSpace(c.PDF.Layout.Font)

	langs := make([]string, 0, len(c.OCR.Languages))
	for _, l := range c.OCR.Languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" && !slices.Contains(langs, l) {
			langs = append(langs, l)
		}
	}
	c.OCR.Languages = langs
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	if !slices.Contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q: must be one of %s", c.LogLevel, strings.Join(ValidLogLevels, ", "))
	}
	if err := c.ParserOptions().Validate(); err != nil {
		return fmt.Errorf("invalid [parser] section: %w", err)
	}
	if c.Reconcile.Tolerance < 0 {
		return fmt.Errorf("invalid [reconcile] section: tolerance must not be negative, got %g", c.Reconcile.Tolerance)
	}
	if len(c.OCR.Languages) == 0 {
		return errors.New("invalid [ocr] section: languages must not be empty")
	}
	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		return fmt.Errorf("invalid [ocr] section: page_seg_mode must be between 0 and 13, got %d", c.OCR.PageSegMode)
	}
	if c.OCR.MinWidth < 0 || c.OCR.SkipLines < 0 {
		return errors.New("invalid [ocr] section: min_width and skip_lines must not be negative")
	}
	if c.OCR.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid [ocr] section: timeout_seconds must be positive, got %d", c.OCR.TimeoutSeconds)
	}
	if c.PDF.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid [pdf] section: timeout_seconds must be positive, got %d", c.PDF.TimeoutSeconds)
	}
	return c.PDF.Layout.Validate()
}

// Validate checks that the layout can be drawn.
func (l Layout) Validate() error {
	if l.Font == "" {
		return errors.New("invalid [pdf.layout] section: font must not be empty")
	}
	if l.FontSize <= 0 || l.HeaderSize <= 0 {
		return errors.New("invalid [pdf.layout] section: font sizes must be positive")
	}
	if l.Grid < 0 {
		return fmt.Errorf("invalid [pdf.layout] section: grid must not be negative, got %g", l.Grid)
	}
	if l.RowHeight <= 0 {
		return fmt.Errorf("invalid [pdf.layout] section: row_height must be positive, got %g", l.RowHeight)
	}
	if l.TableOrigin.Y-float64(week.DaysPerWeek-1)*l.RowHeight < 0 {
		return errors.New("invalid [pdf.layout] section: the last weekday row falls below the page")
	}
	return nil
}

// Load reads and decodes the config file at path. Keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns DefaultConfig when the file does not
// exist. Any other error is returned.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	return Load(path)
}

// GetConfigPath returns the path to the config file.
// Uses os.UserConfigDir() for cross-platform XDG-compliant config directory.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	configDir, err := osutil.Provider.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, app.Name)

	// Create config directory if it doesn't exist
	if err := osutil.Provider.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, ConfigFile), nil
}

// GenerateSampleConfig returns a commented config file listing every option
// with its default value.
func GenerateSampleConfig() string {
	d := DefaultConfig()
	l := d.PDF.Layout
	return fmt.Sprintf(`# timecard configuration file
# Uncomment a line to change its value.

# Log level: "debug", "info", "warn" or "error"
# log_level = %q

[parser]
# An hour written without am/pm that is below this is read as afternoon ("4" -> 16:00)
# assume_pm_after = %d
# Shift length used when only the start or only the end is legible
# default_shift_hours = %g
# Lines recognised with a lower OCR confidence (0 to 1) are treated as unreadable
# min_confidence = %g

[reconcile]
# Hours the handwritten total may differ from the computed total
# tolerance = %g

[ocr]
# languages = ["eng"]
# page_seg_mode = %d
# whitelist = "0123456789:-./ apmAPMtoTOTALhrs"
# min_width = %d
# skip_lines = 0
# timeout_seconds = %d

[pdf]
# template = "~/Documents/TimeCard.pdf"
# employee = "Jane Doe"
# client = "Acme Care"
# timeout_seconds = %d

[pdf.layout]
# Coordinates are PDF points from the bottom-left corner of the page.
# table_origin = { x = %g, y = %g }
# row_height = %g
# columns = { client = %g, date = %g, start = %g, end = %g, hours = %g }
# employee_name = { x = %g, y = %g }
# period_from = { x = %g, y = %g }
# period_to = { x = %g, y = %g }
# total_hours = { x = %g, y = %g }
# signature_name = { x = %g, y = %g }
# signature_date = { x = %g, y = %g }
# font = %q
# font_size = %d
# header_font_size = %d
# Spacing in points of a calibration grid drawn under the text; 0 draws none
# grid = 0
`,
		d.LogLevel,
		d.Parser.AssumePMAfter, d.Parser.DefaultShiftHours, d.Parser.MinConfidence,
		d.Reconcile.Tolerance,
		d.OCR.PageSegMode, d.OCR.MinWidth, d.OCR.TimeoutSeconds,
		d.PDF.TimeoutSeconds,
		l.TableOrigin.X, l.TableOrigin.Y,
		l.RowHeight,
		l.Columns.Client, l.Columns.Date, l.Columns.Start, l.Columns.End, l.Columns.Hours,
		l.EmployeeName.X, l.EmployeeName.Y,
		l.PeriodFrom.X, l.PeriodFrom.Y,
		l.PeriodTo.X, l.PeriodTo.Y,
		l.TotalHours.X, l.TotalHours.Y,
		l.SignatureName.X, l.SignatureName.Y,
		l.SignatureDate.X, l.SignatureDate.Y,
		l.Font, l.FontSize, l.HeaderSize,
	)
}
