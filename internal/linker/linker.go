// Package linker links series folders on disk to catalog entries and records
// the outcome in the link store.
//
// A run resolves every folder that has no stored link yet (or every folder
// when Update is set) and persists the decision: payload and score of the best
// candidate when there is one, and whether the acceptance policy took it. Runs
// hold a file lock so two processes never write the store at once.
package linker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"serieslink/internal/library"
	"serieslink/internal/linkstore"
	"serieslink/internal/logging"
	"serieslink/internal/resolver"
)

// ErrLocked reports that another link run holds the lock.
var ErrLocked = errors.New("another link run is in progress")

// Resolver decides on one folder name.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (resolver.Decision, error)
}

// Options tunes a run.
type Options struct {
	// Update re-resolves folders that already have a stored link.
	Update bool
	// DryRun resolves folders without writing links.
	DryRun bool
}

// Outcome is the per-folder result of a run.
type Outcome struct {
	Series   library.Series    `json:"series"`
	Decision resolver.Decision `json:"decision"`
}

// Report summarizes a run.
type Report struct {
	RunID     string        `json:"run_id"`
	Scanned   int           `json:"scanned"`
	Skipped   int           `json:"skipped"`
	Resolved  int           `json:"resolved"`
	Accepted  int           `json:"accepted"`
	Rejected  int           `json:"rejected"`
	Unmatched int           `json:"unmatched"`
	Elapsed   time.Duration `json:"elapsed"`
	Outcomes  []Outcome     `json:"outcomes,omitempty"`
}

// Linker resolves folders and writes links.
type Linker struct {
	resolver Resolver
	store    *linkstore.Store
	metric   string
	lock     *flock.Flock
	logger   *slog.Logger
}

// New constructs a Linker. metricName is recorded with every link.
func New(r Resolver, store *linkstore.Store, metricName, lockPath string, logger *slog.Logger) (*Linker, error) {
	if r == nil || store == nil {
		return nil, errors.New("linker requires a resolver and a link store")
	}
	if lockPath == "" {
		return nil, errors.New("linker requires a lock path")
	}
	return &Linker{
		resolver: r,
		store:    store,
		metric:   metricName,
		lock:     flock.New(lockPath),
		logger:   logging.NewComponentLogger(logger, "linker"),
	}, nil
}

// Run links series. Folders are processed in the given order; the first
// resolver or store error aborts the run and is returned with the partial
// report.
func (l *Linker) Run(ctx context.Context, series []library.Series, opts Options) (Report, error) {
	ok, err := l.lock.TryLock()
	if err != nil {
		return Report{}, fmt.Errorf("acquire link lock: %w", err)
	}
	if !ok {
		return Report{}, ErrLocked
	}
	defer func() {
		if err := l.lock.Unlock(); err != nil {
			l.logger.Warn("failed to release link lock", logging.Error(err))
		}
	}()

	start := time.Now()
	report := Report{RunID: uuid.NewString(), Scanned: len(series)}
	ctx = logging.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, l.logger)

	linked, err := l.store.Paths(ctx)
	if err != nil {
		report.Elapsed = time.Since(start)
		return report, fmt.Errorf("load linked folders: %w", err)
	}

	for _, s := range series {
		if _, exists := linked[s.Path]; exists && !opts.Update {
			report.Skipped++
			continue
		}

		decision, err := l.resolver.Resolve(ctx, s.Name)
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("link %q: %w", s.Path, err)
		}
		report.Resolved++
		report.Outcomes = append(report.Outcomes, Outcome{Series: s, Decision: decision})

		switch {
		case decision.Best == nil:
			report.Unmatched++
			logging.WarnWithContext(logger, "no catalog match for folder", "link_unmatched",
				logging.String("folder", s.Name),
				logging.String("path", s.Path),
				logging.String(logging.FieldErrorHint, "check the folder name or add the title to the catalog"),
				logging.String(logging.FieldImpact, "folder stays unlinked"))
		case decision.Accepted:
			report.Accepted++
		default:
			report.Rejected++
		}

		if opts.DryRun {
			continue
		}
		if err := l.store.Upsert(ctx, linkFor(s, decision, l.metric, report.RunID)); err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("link %q: %w", s.Path, err)
		}
	}

	report.Elapsed = time.Since(start)
	logger.Info("link run complete",
		logging.String(logging.FieldEventType, "link_run_complete"),
		logging.Int("scanned", report.Scanned),
		logging.Int("skipped", report.Skipped),
		logging.Int("accepted", report.Accepted),
		logging.Int("rejected", report.Rejected),
		logging.Int("unmatched", report.Unmatched),
		logging.Bool("dry_run", opts.DryRun),
		logging.Duration("elapsed", report.Elapsed))
	return report, nil
}

func linkFor(s library.Series, d resolver.Decision, metricName, runID string) *linkstore.Link {
	link := &linkstore.Link{
		Path:      s.Path,
		Name:      s.Name,
		Accepted:  d.Accepted,
		Reason:    d.Reason,
		Metric:    metricName,
		RunID:     runID,
		BookCount: len(s.Books),
	}
	if d.Best != nil {
		score := d.Best.Score
		link.Payload = d.Best.Entry.Payload
		link.Score = &score
	}
	return link
}
