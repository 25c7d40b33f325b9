package batch

import "time"

// Stage is a step of the per file pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageRead      Stage = "read"
	StageParse     Stage = "parse"
	StageTransform Stage = "transform"
	StageSerialize Stage = "serialize"
	StageWrite     Stage = "write"
)

// Status is the outcome of processing one file.
type Status string

const (
	// StatusUpdated means the file was rewritten.
	StatusUpdated Status = "updated"
	// StatusUnchanged means the rewritten content was identical to the current one, so nothing was written.
	StatusUnchanged Status = "unchanged"
	// StatusPlanned means the file would have been rewritten, but the run is a dry run.
	StatusPlanned Status = "planned"
	// StatusFailed means one of the stages failed. The file was not modified.
	StatusFailed Status = "failed"
	// StatusSkipped means the run was canceled before the file was read.
	StatusSkipped Status = "skipped"
)

// Result is the outcome of the pipeline for one file.
type Result struct {
	File   string // File is the entry name within the target directory.
	Path   string
	Status Status

	// Stage is the failing stage. It is only set when Status is StatusFailed.
	Stage Stage
	Err   error

	OldValue string
	NewValue string
}

// Summary aggregates the results of a batch.
type Summary struct {
	RunID     string
	TargetDir string
	Start     time.Time
	End       time.Time
	Results   []Result

	Updated   int
	Unchanged int
	Planned   int
	Failed    int
	Skipped   int

	FailedByStage map[Stage]int
}

func summarize(runID, dir string, start, end time.Time, results []Result) Summary {
	s := Summary{
		RunID:         runID,
		TargetDir:     dir,
		Start:         start,
		End:           end,
		Results:       results,
		FailedByStage: make(map[Stage]int),
	}

	for _, r := range results {
		switch r.Status {
		case StatusUpdated:
			s.Updated++
		case StatusUnchanged:
			s.Unchanged++
		case StatusPlanned:
			s.Planned++
		case StatusFailed:
			s.Failed++
			s.FailedByStage[r.Stage]++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// Total returns the number of files in the batch.
func (s Summary) Total() int {
	return len(s.Results)
}
