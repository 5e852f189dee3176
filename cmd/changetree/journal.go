package main

import (
	"context"
	stderrors "errors"

	"github.com/vango-dev/changetree/internal/config"
	"github.com/vango-dev/changetree/internal/errors"
	"github.com/vango-dev/changetree/internal/journal"
)

// openJournal opens path, or the configured journal when path is empty.
// It returns nil when neither names one.
func openJournal(cfg *config.Config, path string) (*journal.Journal, error) {
	if path == "" {
		path = cfg.Journal.Path
	}
	if path == "" {
		return nil, nil
	}

	j, err := journal.Open(path, journal.S3Options{
		Region:       cfg.Journal.S3.Region,
		Endpoint:     cfg.Journal.S3.Endpoint,
		UsePathStyle: cfg.Journal.S3.UsePathStyle,
	})
	if err != nil {
		if stderrors.Is(err, journal.ErrInvalidLocation) {
			return nil, errors.New("E202").Wrap(err)
		}
		return nil, errors.New("E200").WithDetail("Could not open " + path).Wrap(err)
	}
	return j, nil
}

// closeJournal flushes and closes j, mapping failures to journal codes.
func closeJournal(ctx context.Context, j *journal.Journal) error {
	if j == nil {
		return nil
	}
	if err := j.Close(ctx); err != nil {
		if journal.IsS3(j.Location()) {
			return errors.New("E203").Wrap(err)
		}
		return errors.New("E201").Wrap(err)
	}
	return nil
}
