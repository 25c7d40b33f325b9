package batch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/sfdx-tools/devname-fixer/internal/fileutils"
	"github.com/sfdx-tools/devname-fixer/internal/record"
	"github.com/sfdx-tools/devname-fixer/internal/transform"
)

// Pipeline reads, transforms and writes back a single file.
// A Pipeline holds no per file state and can process several files concurrently.
type Pipeline struct {
	field   string
	pattern string
	policy  transform.Policy
	indent  int
	dryRun  bool

	log *slog.Logger
}

// NewPipeline returns a Pipeline applying cfg.
func NewPipeline(cfg Config, log *slog.Logger) Pipeline {
	if log == nil {
		log = slog.Default()
	}

	return Pipeline{
		field:   cfg.Field,
		pattern: cfg.Pattern,
		policy:  cfg.Replace,
		indent:  cfg.Indent,
		dryRun:  cfg.DryRun,
		log:     log,
	}
}

// Process runs read, parse, transform, serialize and write on the file at path, in that order.
// Any failure stops the pipeline for this file only and is reported in the returned Result.
// A failed file is left as it was.
func (p Pipeline) Process(ctx context.Context, path string) Result {
	res := Result{File: filepath.Base(path), Path: path}

	if err := ctx.Err(); err != nil {
		res.Status = StatusSkipped
		res.Err = errors.Join(ErrCanceled, err)
		p.log.Warn("Skipped file", "file", res.File, "err", res.Err)
		return res
	}

	data, err := fileutils.ReadText(path)
	if err != nil {
		return p.fail(res, StageRead, ErrFileRead, err)
	}

	rec, err := record.Parse(data)
	if err != nil {
		return p.fail(res, StageParse, ErrParse, err)
	}

	res.OldValue, err = rec.String(p.field)
	if err != nil {
		return p.fail(res, StageTransform, ErrFieldAccess, err)
	}
	res.NewValue = transform.Strip(res.OldValue, p.pattern, p.policy)
	if err := rec.SetString(p.field, res.NewValue); err != nil {
		return p.fail(res, StageTransform, ErrFieldAccess, err)
	}

	out, err := rec.Marshal(p.indent)
	if err != nil {
		return p.fail(res, StageSerialize, ErrSerialize, err)
	}

	log := p.log.With("file", res.File, "field", p.field, "from", res.OldValue, "to", res.NewValue)

	if bytes.Equal(out, data) {
		res.Status = StatusUnchanged
		log.Info("File already up to date")
		return res
	}

	if p.dryRun {
		res.Status = StatusPlanned
		log.Info("Dry run, file would be rewritten")
		return res
	}

	if err := fileutils.AtomicWrite(path, out); err != nil {
		return p.fail(res, StageWrite, ErrFileWrite, err)
	}

	res.Status = StatusUpdated
	log.Info("Successfully processed file")
	return res
}

func (p Pipeline) fail(res Result, stage Stage, kind, cause error) Result {
	res.Status = StatusFailed
	res.Stage = stage
	res.Err = errors.Join(kind, cause)

	p.log.Error("Failed to process file", "file", res.File, "stage", stage, "err", res.Err)
	return res
}
