package batch

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sfdx-tools/devname-fixer/internal/constants"
	"github.com/sfdx-tools/devname-fixer/internal/transform"
)

// fieldPathRE matches dot separated object keys without empty segments.
var fieldPathRE = regexp.MustCompile(`^[^.]+(\.[^.]+)*$`)

// Config is the configuration of a batch run.
type Config struct {
	TargetDir     string           `mapstructure:"target-dir" json:"target-dir"`
	Field         string           `mapstructure:"field" json:"field"`
	Pattern       string           `mapstructure:"pattern" json:"pattern"`
	Replace       transform.Policy `mapstructure:"replace" json:"replace"`
	Indent        int              `mapstructure:"indent" json:"indent"`
	DryRun        bool             `mapstructure:"dry-run" json:"dry-run"`
	Watch         bool             `mapstructure:"watch" json:"watch"`
	WatchDebounce time.Duration    `mapstructure:"watch-debounce" json:"watch-debounce"`
}

// DefaultConfig returns a configuration with every default set and no target directory.
func DefaultConfig() Config {
	return Config{
		Field:         constants.DefaultField,
		Pattern:       constants.DefaultPattern,
		Replace:       transform.RemoveAll,
		Indent:        constants.DefaultIndent,
		WatchDebounce: 500 * time.Millisecond,
	}
}

// Validate checks that the configuration can be used for a run.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TargetDir, validation.Required),
		validation.Field(&c.Field, validation.Required, validation.Match(fieldPathRE)),
		validation.Field(&c.Pattern, validation.Required),
		validation.Field(&c.Replace, validation.In(transform.RemoveAll, transform.RemoveFirst)),
		validation.Field(&c.Indent, validation.Min(0), validation.Max(constants.MaxIndent)),
		validation.Field(&c.WatchDebounce, validation.Min(time.Duration(0))),
	)
}
