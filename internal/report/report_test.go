package report_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sfdx-tools/devname-fixer/internal/batch"
	"github.com/sfdx-tools/devname-fixer/internal/report"
	"github.com/sfdx-tools/devname-fixer/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	start = time.Date(2026, time.March, 2, 10, 4, 5, 0, time.UTC)
	end   = start.Add(1500 * time.Millisecond)
)

func summary() batch.Summary {
	return batch.Summary{
		RunID:     "test-run",
		TargetDir: "/some/dir",
		Start:     start,
		End:       end,
		Results: []batch.Result{
			{File: "account.json", Status: batch.StatusUpdated, OldValue: "Account__c__c", NewValue: "Account"},
			{File: "lead.json", Status: batch.StatusUnchanged, OldValue: "Lead", NewValue: "Lead"},
			{File: "broken.json", Status: batch.StatusFailed, Stage: batch.StageParse, Err: errors.Join(batch.ErrParse, errors.New("unexpected end"))},
		},
		Updated:       1,
		Unchanged:     1,
		Failed:        1,
		FailedByStage: map[batch.Stage]int{batch.StageParse: 1},
	}
}

func wantReport() report.Report {
	return report.Report{
		RunID:     "test-run",
		TargetDir: "/some/dir",
		Start:     start,
		End:       end,
		Counts: report.Counts{
			Total:     3,
			Updated:   1,
			Unchanged: 1,
			Failed:    1,
		},
		FailedByStage: map[string]int{"parse": 1},
		Files: []report.File{
			{Name: "account.json", Status: "updated", From: "Account__c__c", To: "Account"},
			{Name: "lead.json", Status: "unchanged", From: "Lead", To: "Lead"},
			{Name: "broken.json", Status: "failed", Stage: "parse", Error: "cannot parse file as a JSON object\nunexpected end"},
		},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		summary batch.Summary
		dryRun  bool

		want report.Report
	}{
		"Report from summary": {summary: summary(), want: wantReport()},
		"Dry run report": {
			summary: batch.Summary{
				RunID:         "test-run",
				TargetDir:     "/some/dir",
				Start:         start,
				End:           end,
				Results:       []batch.Result{{File: "a.json", Status: batch.StatusPlanned, OldValue: "A__c", NewValue: "A"}},
				Planned:       1,
				FailedByStage: map[batch.Stage]int{},
			},
			dryRun: true,
			want: report.Report{
				RunID:     "test-run",
				TargetDir: "/some/dir",
				DryRun:    true,
				Start:     start,
				End:       end,
				Counts:    report.Counts{Total: 1, Planned: 1},
				Files:     []report.File{{Name: "a.json", Status: "planned", From: "A__c", To: "A"}},
			},
		},
		"Canceled run report": {
			summary: batch.Summary{
				RunID:         "test-run",
				TargetDir:     "/some/dir",
				Start:         start,
				End:           end,
				Results:       []batch.Result{{File: "a.json", Status: batch.StatusSkipped, Err: batch.ErrCanceled}},
				Skipped:       1,
				FailedByStage: map[batch.Stage]int{},
			},
			want: report.Report{
				RunID:     "test-run",
				TargetDir: "/some/dir",
				Start:     start,
				End:       end,
				Counts:    report.Counts{Total: 1, Skipped: 1},
				Files:     []report.File{{Name: "a.json", Status: "skipped", Error: "processing canceled"}},
			},
		},
		"Empty summary": {
			summary: batch.Summary{RunID: "test-run", TargetDir: "/some/dir", Start: start, End: end},
			want: report.Report{
				RunID:     "test-run",
				TargetDir: "/some/dir",
				Start:     start,
				End:       end,
				Files:     []report.File{},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := report.New(tc.summary, tc.dryRun)
			assert.Equal(t, tc.want, got, "New should convert the summary")
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path string

		want    report.Format
		wantErr bool
	}{
		"JSON":                 {path: "report.json", want: report.FormatJSON},
		"YAML":                 {path: "/tmp/report.yaml", want: report.FormatYAML},
		"YML":                  {path: "report.yml", want: report.FormatYAML},
		"TOML":                 {path: "report.toml", want: report.FormatTOML},
		"Upper case extension": {path: "REPORT.JSON", want: report.FormatJSON},

		"Error on unknown extension": {path: "report.txt", wantErr: true},
		"Error on no extension":      {path: "report", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := report.FormatFromPath(tc.path)
			if tc.wantErr {
				require.ErrorIs(t, err, report.ErrInvalidReportExt, "FormatFromPath should reject the extension")
				return
			}
			require.NoError(t, err, "FormatFromPath should not return an error")
			assert.Equal(t, tc.want, got, "Unexpected format")
		})
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name     string
		readOnly bool

		wantErr bool
	}{
		"Writes JSON": {name: "report.json"},
		"Writes YAML": {name: "report.yaml"},
		"Writes YML":  {name: "report.yml"},
		"Writes TOML": {name: "report.toml"},

		"Error on unknown extension":        {name: "report.txt", wantErr: true},
		"Error when directory is read only": {name: "report.json", readOnly: true, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if tc.readOnly && !testutils.IsUnixNonRoot() {
				t.Skip("Skipping test: requires a non root Unix user to deny writes")
			}

			dir := t.TempDir()
			if tc.readOnly {
				testutils.MakeReadOnly(t, dir)
			}
			path := filepath.Join(dir, tc.name)

			err := report.New(summary(), false).Write(path)
			if tc.wantErr {
				require.Error(t, err, "Write should return an error")
				_, statErr := os.Stat(path)
				require.ErrorIs(t, statErr, os.ErrNotExist, "No report should be written on error")
				return
			}
			require.NoError(t, err, "Write should not return an error")

			data, err := os.ReadFile(path)
			require.NoError(t, err, "Teardown: failed to read report")

			var got report.Report
			switch filepath.Ext(path) {
			case ".json":
				err = json.Unmarshal(data, &got)
			case ".yaml", ".yml":
				err = yaml.Unmarshal(data, &got)
			case ".toml":
				_, err = toml.Decode(string(data), &got)
			}
			require.NoError(t, err, "Written report should decode")

			want := wantReport()
			assert.True(t, want.Start.Equal(got.Start), "Start should round trip, got %v", got.Start)
			assert.True(t, want.End.Equal(got.End), "End should round trip, got %v", got.End)
			want.Start, want.End = time.Time{}, time.Time{}
			got.Start, got.End = time.Time{}, time.Time{}
			assert.Equal(t, want, got, "Written report should hold the run outcome")
		})
	}
}
