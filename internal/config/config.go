// Package config loads command line settings from YAML.
package config

import (
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"tabula/internal/errs"
	csvio "tabula/internal/io/csv"
	jsonio "tabula/internal/io/json"
	"tabula/internal/logger"
	"tabula/internal/print"
)

type Config struct {
	Log     LogConfig     `yaml:"log"`
	CSV     CSVConfig     `yaml:"csv"`
	JSON    JSONConfig    `yaml:"json"`
	Preview PreviewConfig `yaml:"preview"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Encoding    string `yaml:"encoding"`
	Development bool   `yaml:"development"`
}

type CSVConfig struct {
	Separator  string   `yaml:"separator"`
	NullValues []string `yaml:"null_values,omitempty"`
	Index      bool     `yaml:"index"`
}

type JSONConfig struct {
	// Indent is the number of spaces per level; 0 writes one line.
	Indent int `yaml:"indent"`
}

type PreviewConfig struct {
	Head        int  `yaml:"head"`
	Tail        int  `yaml:"tail"`
	MaxCols     int  `yaml:"max_cols"`
	MaxColWidth int  `yaml:"max_col_width"`
	Width       int  `yaml:"width"`
	Stats       bool `yaml:"stats"`
}

func Default() Config {
	p := print.DefaultTableOptions()
	return Config{
		Log:  LogConfig{Level: "warn", Encoding: "console"},
		CSV:  CSVConfig{Separator: ","},
		JSON: JSONConfig{Indent: 2},
		Preview: PreviewConfig{
			Head:        p.Head,
			Tail:        p.Tail,
			MaxCols:     p.MaxCols,
			MaxColWidth: p.MaxColWidth,
			Width:       p.MaxTableWidth,
			Stats:       p.Stats,
		},
	}
}

// Load reads the YAML file at path over the defaults. ${VAR} references
// are replaced with the environment value before parsing.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errs.Wrap(err, errs.KindFileAccess, "load_config", path).WithDetail("path", path)
	}
	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return cfg, errs.Wrap(err, errs.KindArgument, "load_config", "failed to parse YAML")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errs.Wrap(err, errs.KindArgument, "save_config", "failed to marshal YAML")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(err, errs.KindFileAccess, "save_config", path)
	}
	return nil
}

func (c Config) Validate() error {
	if utf8.RuneCountInString(c.CSV.Separator) != 1 {
		return errs.Newf(errs.KindArgument, "config", "csv.separator must be one character, got %q", c.CSV.Separator)
	}
	if c.JSON.Indent < 0 {
		return errs.Newf(errs.KindArgument, "config", "json.indent must not be negative, got %d", c.JSON.Indent)
	}
	if c.Preview.Head < 0 || c.Preview.Tail < 0 {
		return errs.New(errs.KindArgument, "config", "preview rows must not be negative")
	}
	return nil
}

func (c Config) Logger() logger.Config {
	return logger.Config{Level: c.Log.Level, Encoding: c.Log.Encoding, Development: c.Log.Development}
}

func (c Config) CSVOptions() csvio.Options {
	sep, _ := utf8.DecodeRuneInString(c.CSV.Separator)
	return csvio.Options{Delimiter: sep, NullValues: c.CSV.NullValues, Index: c.CSV.Index}
}

func (c Config) JSONOptions() jsonio.WriteOptions {
	return jsonio.WriteOptions{Indent: strings.Repeat(" ", c.JSON.Indent)}
}

func (c Config) TableOptions() print.TableOptions {
	return print.TableOptions{
		Head:          c.Preview.Head,
		Tail:          c.Preview.Tail,
		MaxCols:       c.Preview.MaxCols,
		MaxColWidth:   c.Preview.MaxColWidth,
		MaxTableWidth: c.Preview.Width,
		Stats:         c.Preview.Stats,
	}
}

// substituteEnvVars replaces ${NAME} with the value of NAME, or the empty
// string when unset. An unterminated reference is left as is.
func substituteEnvVars(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.IndexByte(content[start:], '}')
		if end == -1 {
			break
		}
		end += start
		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
