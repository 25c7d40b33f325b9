// Package report writes the outcome of a batch run to a file.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sfdx-tools/devname-fixer/internal/batch"
	"github.com/sfdx-tools/devname-fixer/internal/fileutils"
	"github.com/ubuntu/decorate"
	"gopkg.in/yaml.v3"
)

// ErrInvalidReportExt is returned when a report path has an extension that maps to no format.
var ErrInvalidReportExt = errors.New("invalid report file extension, expected .json, .yaml, .yml or .toml")

// Format is a report serialization format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath returns the format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidReportExt, path)
}

// Report is the serializable outcome of one batch.
type Report struct {
	RunID     string    `json:"run_id" yaml:"run_id" toml:"run_id"`
	TargetDir string    `json:"target_dir" yaml:"target_dir" toml:"target_dir"`
	DryRun    bool      `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	Start     time.Time `json:"start" yaml:"start" toml:"start"`
	End       time.Time `json:"end" yaml:"end" toml:"end"`

	Counts        Counts         `json:"counts" yaml:"counts" toml:"counts"`
	FailedByStage map[string]int `json:"failed_by_stage,omitempty" yaml:"failed_by_stage,omitempty" toml:"failed_by_stage,omitempty"`
	Files         []File         `json:"files" yaml:"files" toml:"files"`
}

// Counts holds the number of files per status.
type Counts struct {
	Total     int `json:"total" yaml:"total" toml:"total"`
	Updated   int `json:"updated" yaml:"updated" toml:"updated"`
	Unchanged int `json:"unchanged" yaml:"unchanged" toml:"unchanged"`
	Planned   int `json:"planned" yaml:"planned" toml:"planned"`
	Failed    int `json:"failed" yaml:"failed" toml:"failed"`
	Skipped   int `json:"skipped" yaml:"skipped" toml:"skipped"`
}

// File is the outcome for one entry of the target directory.
type File struct {
	Name   string `json:"name" yaml:"name" toml:"name"`
	Status string `json:"status" yaml:"status" toml:"status"`
	Stage  string `json:"stage,omitempty" yaml:"stage,omitempty" toml:"stage,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	From   string `json:"from,omitempty" yaml:"from,omitempty" toml:"from,omitempty"`
	To     string `json:"to,omitempty" yaml:"to,omitempty" toml:"to,omitempty"`
}

// New builds a Report from the summary of a batch.
func New(s batch.Summary, dryRun bool) Report {
	r := Report{
		RunID:     s.RunID,
		TargetDir: s.TargetDir,
		DryRun:    dryRun,
		Start:     s.Start.UTC(),
		End:       s.End.UTC(),
		Counts: Counts{
			Total:     s.Total(),
			Updated:   s.Updated,
			Unchanged: s.Unchanged,
			Planned:   s.Planned,
			Failed:    s.Failed,
			Skipped:   s.Skipped,
		},
		Files: make([]File, 0, len(s.Results)),
	}

	for stage, n := range s.FailedByStage {
		if r.FailedByStage == nil {
			r.FailedByStage = make(map[string]int)
		}
		r.FailedByStage[string(stage)] = n
	}

	for _, res := range s.Results {
		f := File{
			Name:   res.File,
			Status: string(res.Status),
			Stage:  string(res.Stage),
			From:   res.OldValue,
			To:     res.NewValue,
		}
		if res.Err != nil {
			f.Error = res.Err.Error()
		}
		r.Files = append(r.Files, f)
	}

	return r
}

// Marshal serializes the report in format.
func (r Report) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("could not marshal report as JSON: %v", err)
		}
		return append(data, '\n'), nil

	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("could not marshal report as YAML: %v", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("could not marshal report as YAML: %v", err)
		}
		return buf.Bytes(), nil

	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(r); err != nil {
			return nil, fmt.Errorf("could not marshal report as TOML: %v", err)
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("unknown report format %q", format)
}

// Write atomically writes the report to path, in the format matching its extension.
func (r Report) Write(path string) (err error) {
	defer decorate.OnError(&err, "could not write report to %q", path)

	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := r.Marshal(format)
	if err != nil {
		return err
	}

	return fileutils.AtomicWrite(path, data)
}
