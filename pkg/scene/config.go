package scene

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kaptinlin/jsonschema"

	"github.com/matzehuels/chartoverlay/pkg/errors"
	"github.com/matzehuels/chartoverlay/pkg/frame"
)

// Config is a scene file: the canvas, the data rows and the overlays in
// declaration order.
//
//	title = "ACME daily"
//	width = 800
//	height = 400
//
//	[margin]
//	top = 20
//	left = 50
//
//	[data]
//	columns = ["open", "close"]
//	rows = [[10, 11], [11, 12.5]]
//
//	[[overlay]]
//	type = "label"
//	text = "ACME"
//	x = 375
//	y = 190
type Config struct {
	Title      string          `toml:"title" json:"title,omitempty"`
	Width      float64         `toml:"width" json:"width"`
	Height     float64         `toml:"height" json:"height"`
	Ratio      float64         `toml:"ratio" json:"ratio,omitempty"`
	Backdrop   string          `toml:"backdrop" json:"backdrop,omitempty"`
	LayoutMode string          `toml:"layout_mode" json:"layout_mode,omitempty"`
	Margin     MarginConfig    `toml:"margin" json:"margin"`
	Data       DataConfig      `toml:"data" json:"data"`
	Overlays   []OverlayConfig `toml:"overlay" json:"overlay,omitempty"`
}

// MarginConfig is the inset of the plot area inside the canvas.
type MarginConfig struct {
	Top    float64 `toml:"top" json:"top,omitempty"`
	Right  float64 `toml:"right" json:"right,omitempty"`
	Bottom float64 `toml:"bottom" json:"bottom,omitempty"`
	Left   float64 `toml:"left" json:"left,omitempty"`
}

// DataConfig holds the plotted rows. Row i becomes the datum with index i;
// each column names one value. Short rows leave the trailing values unset.
type DataConfig struct {
	Columns []string    `toml:"columns" json:"columns"`
	Rows    [][]float64 `toml:"rows" json:"rows"`

	// Start and Interval stamp row i with Start + i*Interval.
	Start    string `toml:"start" json:"start,omitempty"`
	Interval string `toml:"interval" json:"interval,omitempty"`
}

// BackgroundConfig configures a background box.
type BackgroundConfig struct {
	Fill    string   `toml:"fill" json:"fill,omitempty"`
	Stroke  string   `toml:"stroke" json:"stroke,omitempty"`
	X       *float64 `toml:"x" json:"x,omitempty"`
	Y       *float64 `toml:"y" json:"y,omitempty"`
	Width   *float64 `toml:"width" json:"width,omitempty"`
	Height  *float64 `toml:"height" json:"height,omitempty"`
	Padding any      `toml:"padding" json:"padding,omitempty"`
}

// ItemConfig is one entry of a group tooltip.
type ItemConfig struct {
	Label     string `toml:"label" json:"label"`
	Key       string `toml:"key" json:"key"`
	LabelFill string `toml:"label_fill" json:"label_fill,omitempty"`
	ValueFill string `toml:"value_fill" json:"value_fill,omitempty"`
	Shape     bool   `toml:"shape" json:"shape,omitempty"`
	Format    string `toml:"format" json:"format,omitempty"`
}

// AverageConfig is one column of a moving-average tooltip.
type AverageConfig struct {
	Type   string `toml:"type" json:"type"`
	Window int    `toml:"window" json:"window"`
	Key    string `toml:"key" json:"key"`
	Stroke string `toml:"stroke" json:"stroke,omitempty"`
}

// OverlayConfig declares one overlay. Type selects which fields apply:
//
//   - series: key, stroke, line_width, layer
//   - label: text, fill, font_*, align, rotate, x, y or y_key, datum, layer
//   - single: label, key, format, init, layout, shape
//   - group: items, layout, position, format, init, item_width, row_height
//   - moving_average: averages, column_width, format, init
//   - single_value: x_label, x_key, x_format, y_label, y_key, y_format
//   - rsi: window, key, format, init
//   - stochastic: label, window, k_window, d_window, k_key, d_key, k_stroke, d_stroke
//
// Every tooltip also takes origin, font_*, label_fill, value_fill, values,
// class and background.
type OverlayConfig struct {
	Type  string `toml:"type" json:"type"`
	Layer string `toml:"layer" json:"layer,omitempty"`
	Class string `toml:"class" json:"class,omitempty"`

	Text        string  `toml:"text" json:"text,omitempty"`
	Fill        string  `toml:"fill" json:"fill,omitempty"`
	FontFamily  string  `toml:"font_family" json:"font_family,omitempty"`
	FontSize    float64 `toml:"font_size" json:"font_size,omitempty"`
	FontWeight  string  `toml:"font_weight" json:"font_weight,omitempty"`
	LabelWeight string  `toml:"label_weight" json:"label_weight,omitempty"`
	Align       string  `toml:"align" json:"align,omitempty"`
	Rotate      float64 `toml:"rotate" json:"rotate,omitempty"`

	X          *float64          `toml:"x" json:"x,omitempty"`
	Y          *float64          `toml:"y" json:"y,omitempty"`
	Datum      *int              `toml:"datum" json:"datum,omitempty"`
	Background *BackgroundConfig `toml:"background" json:"background,omitempty"`

	Origin    []float64 `toml:"origin" json:"origin,omitempty"`
	Position  string    `toml:"position" json:"position,omitempty"`
	Layout    string    `toml:"layout" json:"layout,omitempty"`
	Format    string    `toml:"format" json:"format,omitempty"`
	Init      *string   `toml:"init" json:"init,omitempty"`
	Values    string    `toml:"values" json:"values,omitempty"`
	ItemWidth float64   `toml:"item_width" json:"item_width,omitempty"`
	RowHeight float64   `toml:"row_height" json:"row_height,omitempty"`

	Label       string          `toml:"label" json:"label,omitempty"`
	Key         string          `toml:"key" json:"key,omitempty"`
	LabelFill   string          `toml:"label_fill" json:"label_fill,omitempty"`
	ValueFill   string          `toml:"value_fill" json:"value_fill,omitempty"`
	Shape       bool            `toml:"shape" json:"shape,omitempty"`
	Items       []ItemConfig    `toml:"items" json:"items,omitempty"`
	Averages    []AverageConfig `toml:"averages" json:"averages,omitempty"`
	ColumnWidth float64         `toml:"column_width" json:"column_width,omitempty"`

	XLabel  string `toml:"x_label" json:"x_label,omitempty"`
	YLabel  string `toml:"y_label" json:"y_label,omitempty"`
	XKey    string `toml:"x_key" json:"x_key,omitempty"`
	YKey    string `toml:"y_key" json:"y_key,omitempty"`
	XFormat string `toml:"x_format" json:"x_format,omitempty"`
	YFormat string `toml:"y_format" json:"y_format,omitempty"`

	Window  int    `toml:"window" json:"window,omitempty"`
	KWindow int    `toml:"k_window" json:"k_window,omitempty"`
	DWindow int    `toml:"d_window" json:"d_window,omitempty"`
	KKey    string `toml:"k_key" json:"k_key,omitempty"`
	DKey    string `toml:"d_key" json:"d_key,omitempty"`
	KStroke string `toml:"k_stroke" json:"k_stroke,omitempty"`
	DStroke string `toml:"d_stroke" json:"d_stroke,omitempty"`

	Stroke    string  `toml:"stroke" json:"stroke,omitempty"`
	LineWidth float64 `toml:"line_width" json:"line_width,omitempty"`
}

//go:embed scene.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.NewCompiler().Compile(schemaJSON)
	})
	return schema, schemaErr
}

// Schema returns the embedded JSON Schema scene files are validated against.
func Schema() []byte { return schemaJSON }

// Parse decodes a TOML scene and validates it against the scene schema.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode scene")
	}
	if err := validate(raw); err != nil {
		return nil, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode scene")
	}
	return &cfg, nil
}

// Load reads and parses the scene file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func validate(raw map[string]any) error {
	s, err := compiledSchema()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compile scene schema")
	}
	doc, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "encode scene for validation")
	}
	result := s.ValidateJSON(doc)
	if result.IsValid() {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidConfig, "scene does not match schema: %v", result.Errors)
}

// Datums converts the data rows into plot data.
func (c *Config) Datums() ([]*frame.Datum, error) {
	var (
		start    time.Time
		interval time.Duration
		err      error
	)
	if c.Data.Start != "" {
		if start, err = parseTime(c.Data.Start); err != nil {
			return nil, err
		}
	}
	if c.Data.Interval != "" {
		if interval, err = time.ParseDuration(c.Data.Interval); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "data interval")
		}
	}

	out := make([]*frame.Datum, len(c.Data.Rows))
	for i, row := range c.Data.Rows {
		if len(row) > len(c.Data.Columns) {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "row %d has %d values for %d columns", i, len(row), len(c.Data.Columns))
		}
		d := &frame.Datum{Index: i, Values: make(map[string]float64, len(row))}
		for j, v := range row {
			d.Values[c.Data.Columns[j]] = v
		}
		if !start.IsZero() {
			d.Time = start.Add(time.Duration(i) * interval)
		}
		out[i] = d
	}
	return out, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidConfig, "data start %q is not a date", s)
}

// Frame builds the rendering context for the scene. item selects the hovered
// datum; a negative item means nothing is hovered.
func (c *Config) Frame(item int) (*frame.Frame, error) {
	data, err := c.Datums()
	if err != nil {
		return nil, err
	}
	return c.frameFor(data, item)
}

func (c *Config) frameFor(data []*frame.Datum, item int) (*frame.Frame, error) {
	m := frame.Margin{Top: c.Margin.Top, Right: c.Margin.Right, Bottom: c.Margin.Bottom, Left: c.Margin.Left}
	f := &frame.Frame{
		XAccessor: frame.IndexAccessor,
		PlotData:  data,
		Width:     c.Width - m.Left - m.Right,
		Height:    c.Height - m.Top - m.Bottom,
		Ratio:     c.Ratio,
		Margin:    m,
	}
	if err := errors.ValidateDimensions(f.Width, f.Height); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "margins leave no plot area")
	}
	f.XScale = IndexScale(len(data), f.Width)
	if lo, hi, ok := Extent(data, c.scaleKeys()...); ok {
		f.YScale = ValueScale(lo, hi, f.Height, 0.05)
	}
	if item >= 0 {
		if item >= len(data) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "item %d out of range (%d rows)", item, len(data))
		}
		f.Current = data[item]
	}
	return f, nil
}

// scaleKeys are the columns the vertical scale spans: the plotted series,
// or every column when the scene has none.
func (c *Config) scaleKeys() []string {
	var keys []string
	for _, o := range c.Overlays {
		if o.Type == TypeSeries && o.Key != "" {
			keys = append(keys, o.Key)
		}
	}
	if len(keys) == 0 {
		return c.Data.Columns
	}
	return keys
}
