package jobs

import (
	"context"

	"spendflix/internal/domain/importer"
	"spendflix/internal/domain/source"
)

// ImportJob processes one uploaded source in the background.
type ImportJob struct {
	src *source.Source
	imp *importer.Importer
}

func NewImportJob(src *source.Source, imp *importer.Importer) *ImportJob {
	return &ImportJob{src: src, imp: imp}
}

func (j *ImportJob) SourceID() string {
	return j.src.ID
}

func (j *ImportJob) Description() string {
	return "statement import"
}

func (j *ImportJob) Execute(ctx context.Context) error {
	_, err := j.imp.ImportFromSource(ctx, j.src)
	return err
}
