package sync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Summary aggregates the passes of one orchestrated run.
type Summary struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Results   []Result      `json:"results"`
	Errors    int           `json:"errors"`
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	s.Errors += r.Errors
}

// RunAll executes a full catalog load in dependency order: tags before
// events, events before markets, tag relationships once the tag id space is
// loaded, series after events so its stubs only fill gaps, and comments last
// since they hang off stored events and markets. The Tags, Series,
// Relationships and Comments toggles skip their passes; events and markets
// always run. A pass failure aborts the run; per-id errors inside a pass do
// not.
func (s *Service) RunAll(ctx context.Context, opts Options) (Summary, error) {
	summary := Summary{StartedAt: time.Now().UTC()}
	defer func() { summary.Duration = time.Since(summary.StartedAt) }()

	if opts.Tags {
		res, err := s.SyncTags(ctx, opts)
		summary.add(res)
		if err != nil {
			return summary, err
		}
	}

	res, err := s.SyncEvents(ctx, opts)
	summary.add(res)
	if err != nil {
		return summary, err
	}

	res, err = s.SyncMarkets(ctx, opts)
	if err != nil {
		if !errors.Is(err, ErrNoEvents) {
			summary.add(res)
			return summary, err
		}
		// Empty catalog upstream: nothing for the markets pass to walk.
		s.logger().Warn("skipping markets pass", zap.Error(err))
	}
	summary.add(res)

	if opts.Relationships {
		res, err = s.SyncTagRelationships(ctx, opts)
		summary.add(res)
		if err != nil {
			return summary, err
		}
	}

	if opts.Series {
		res, err = s.SyncSeries(ctx, opts)
		summary.add(res)
		if err != nil {
			return summary, err
		}
	}

	if opts.Comments {
		res, err = s.SyncComments(ctx, opts)
		summary.add(res)
		if err != nil {
			return summary, err
		}
	}

	s.logger().Info("catalog run complete",
		zap.Duration("duration", time.Since(summary.StartedAt)),
		zap.Int("errors", summary.Errors))
	return summary, nil
}

// DailyScan is the recurring refresh: it re-walks the open half of the
// catalog (closed=false) plus the tag surface, leaving closed history
// untouched. Cursors are not resumed; the scan always starts from offset 0.
// With Enrich set, the scan ends with per-id detail passes over events and
// markets, the way a full nightly refresh would.
func (s *Service) DailyScan(ctx context.Context, opts Options) (Summary, error) {
	open := false
	scanOpts := opts
	scanOpts.Closed = &open
	scanOpts.Resume = false

	summary := Summary{StartedAt: time.Now().UTC()}
	defer func() { summary.Duration = time.Since(summary.StartedAt) }()

	if opts.Tags {
		res, err := s.SyncTags(ctx, scanOpts)
		summary.add(res)
		if err != nil {
			return summary, err
		}
	}

	res, err := s.SyncEvents(ctx, scanOpts)
	summary.add(res)
	if err != nil {
		return summary, err
	}

	if opts.Relationships {
		res, err = s.SyncTagRelationships(ctx, scanOpts)
		summary.add(res)
		if err != nil {
			return summary, err
		}
	}

	if opts.Series {
		res, err = s.SyncSeries(ctx, scanOpts)
		summary.add(res)
		if err != nil {
			return summary, err
		}
	}

	if opts.Enrich {
		res, err = s.EnrichEvents(ctx, scanOpts)
		summary.add(res)
		if err != nil {
			return summary, err
		}
		res, err = s.EnrichMarkets(ctx, scanOpts)
		summary.add(res)
		if err != nil {
			return summary, err
		}
	}

	s.logger().Info("daily scan complete",
		zap.Duration("duration", time.Since(summary.StartedAt)),
		zap.Int("errors", summary.Errors))
	return summary, nil
}
