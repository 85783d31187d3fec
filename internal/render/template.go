package render

import (
	"embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed templates/orders_by_partner.yaml
var templateFS embed.FS

const defaultTemplate = "templates/orders_by_partner.yaml"

// ErrInvalidTemplate is returned when a report template cannot be used.
var ErrInvalidTemplate = errors.New("invalid report template")

// Template describes the layout of the partner order report.
type Template struct {
	Name        string   `yaml:"name"`
	Title       string   `yaml:"title"`
	DataSource  string   `yaml:"data_source"`
	Orientation string   `yaml:"orientation"`
	PageSize    string   `yaml:"page_size"`
	Font        string   `yaml:"font"`
	FontSize    float64  `yaml:"font_size"`
	DateFormat  string   `yaml:"date_format"`
	Header      []string `yaml:"header"`
	Columns     []Column `yaml:"columns"`
	TotalsLabel string   `yaml:"totals_label"`
	Footer      string   `yaml:"footer"`
}

// Column is one table column bound to a dataset field.
type Column struct {
	Field  string  `yaml:"field"`
	Header string  `yaml:"header"`
	Width  float64 `yaml:"width"`
	Align  string  `yaml:"align"`
	Total  bool    `yaml:"total"`
}

// LoadTemplate reads the template at path, or the embedded default when path
// is empty.
func LoadTemplate(path string) (*Template, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = templateFS.ReadFile(defaultTemplate)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading report template: %w", err)
	}
	return ParseTemplate(data)
}

// ParseTemplate decodes a YAML template, applies layout defaults and checks
// every column against the order dataset.
func ParseTemplate(data []byte) (*Template, error) {
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	tpl.applyDefaults()
	if err := tpl.validate(); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (t *Template) applyDefaults() {
	if t.DataSource == "" {
		t.DataSource = DataSourceName
	}
	if t.Orientation == "" {
		t.Orientation = "P"
	}
	if t.PageSize == "" {
		t.PageSize = "A4"
	}
	if t.Font == "" {
		t.Font = "Helvetica"
	}
	if t.FontSize <= 0 {
		t.FontSize = 9
	}
	if t.DateFormat == "" {
		t.DateFormat = "02/01/2006"
	}
	for i := range t.Columns {
		if t.Columns[i].Align == "" {
			t.Columns[i].Align = "L"
		}
	}
}

func (t *Template) validate() error {
	if t.DataSource != DataSourceName {
		return fmt.Errorf("%w: unknown data source %q", ErrInvalidTemplate, t.DataSource)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidTemplate)
	}
	for _, c := range t.Columns {
		f, ok := orderFields[c.Field]
		if !ok {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidTemplate, c.Field)
		}
		if c.Width <= 0 {
			return fmt.Errorf("%w: column %q has no width", ErrInvalidTemplate, c.Field)
		}
		if c.Total && f.number == nil {
			return fmt.Errorf("%w: column %q cannot be totalled", ErrInvalidTemplate, c.Field)
		}
	}
	return nil
}

// HasTotals reports whether any column is totalled.
func (t *Template) HasTotals() bool {
	for _, c := range t.Columns {
		if c.Total {
			return true
		}
	}
	return false
}
