package publisher

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dunterov/aws-csv-to-confluence/internal"
	"github.com/dunterov/aws-csv-to-confluence/internal/catalog"
	"github.com/dunterov/aws-csv-to-confluence/internal/inventory"
)

const (
	actionCreate = "create"
	actionUpdate = "update"
)

// Failure is one failed remote operation from a run.
type Failure struct {
	Op    string
	Title string
	Err   error
}

// PartialError reports a run that reached the end with some operations
// failed. The surviving pages are already published; the next run overwrites
// whatever state this one left behind.
type PartialError struct {
	Failures []Failure
}

func (e *PartialError) Error() string {
	if len(e.Failures) == 1 {
		f := e.Failures[0]
		return fmt.Sprintf("sync finished with 1 failure: %s %q: %v", f.Op, f.Title, f.Err)
	}
	return fmt.Sprintf("sync finished with %d failures", len(e.Failures))
}

func (e *PartialError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

type Option func(*Publisher)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithSource(source internal.RecordSource) Option {
	return func(p *Publisher) {
		p.source = source
	}
}

func WithWiki(wiki internal.Wiki) Option {
	return func(p *Publisher) {
		p.wiki = wiki
	}
}

func WithFilter(filter *inventory.Filter) Option {
	return func(p *Publisher) {
		p.filter = filter
	}
}

func WithParent(parentID string) Option {
	return func(p *Publisher) {
		p.parentID = parentID
	}
}

func WithSubtitle(subtitle string) Option {
	return func(p *Publisher) {
		p.subtitle = subtitle
	}
}

func WithClean(clean bool) Option {
	return func(p *Publisher) {
		p.clean = clean
	}
}

func WithSourceName(name string) Option {
	return func(p *Publisher) {
		p.sourceName = name
	}
}

// WithRunStart pins the run start timestamp. The caller captures it before
// the first remote call of the invocation so cleanup can tell this run's
// writes apart from concurrent ones.
func WithRunStart(t time.Time) Option {
	return func(p *Publisher) {
		p.runStart = t
	}
}

// Publisher executes one sync run: drain the record source, filter, group,
// publish one page per group under the parent, then optionally delete stale
// children. Work is sequential; reconciliation always finishes before
// cleanup so the touched set is final.
type Publisher struct {
	logger     *zap.Logger
	source     internal.RecordSource
	wiki       internal.Wiki
	filter     *inventory.Filter
	parentID   string
	subtitle   string
	clean      bool
	sourceName string
	runStart   time.Time
}

func New(opts ...Option) *Publisher {
	p := Publisher{
		logger: zap.NewNop(),
		filter: inventory.NewFilter(),
	}

	for _, opt := range opts {
		opt(&p)
	}

	return &p
}

// Run performs the sync and returns the catalog of what happened. A
// *PartialError means some pages failed while the rest of the run went
// through; the catalog is still returned alongside it.
func (p *Publisher) Run(ctx context.Context) (*catalog.Catalog, error) {
	runID := uuid.Must(uuid.NewUUID())
	runStart := p.runStart
	if runStart.IsZero() {
		runStart = time.Now().UTC()
	}

	cat := catalog.New(runID.String(), p.sourceName, runStart)

	records, err := p.collect()
	if err != nil {
		return nil, err
	}
	cat.NumSourceRecords = len(records)

	kept := p.filter.Apply(records)
	groups := inventory.Group(kept)
	cat.NumRecordsPublished = len(kept)
	cat.NumGroups = len(groups)

	p.logger.Info("collected inventory",
		zap.String("run_id", cat.RunID),
		zap.Int("records", len(records)),
		zap.Int("kept", len(kept)),
		zap.Int("groups", len(groups)),
	)

	touched := make(map[string]struct{}, len(groups))
	var failures []Failure

	for _, group := range groups {
		title := PageTitle(group.Display, p.subtitle)
		body := RenderBody(group)

		// A failed write must still shield the page from cleanup, so the
		// title counts as touched before the remote call is attempted.
		touched[title] = struct{}{}

		action, ref, err := p.reconcile(ctx, title, body)
		if err != nil {
			p.logger.Error("publishing page failed",
				zap.String("title", title),
				zap.String("action", action),
				zap.Error(err),
			)
			failures = append(failures, Failure{Op: action, Title: title, Err: err})
			cat.Failed = append(cat.Failed, catalog.Page{Title: title, Error: err.Error()})
			continue
		}

		page := catalog.Page{
			Title:   title,
			ID:      ref.ID,
			Records: len(group.Records),
		}
		switch action {
		case actionCreate:
			cat.Created = append(cat.Created, page)
		case actionUpdate:
			cat.Updated = append(cat.Updated, page)
		}

		p.logger.Info("published page",
			zap.String("title", title),
			zap.String("action", action),
			zap.String("page_id", ref.ID),
			zap.Int("records", len(group.Records)),
		)
	}

	if p.clean {
		deleted, cleanFailures := p.cleanup(ctx, touched, runStart)
		cat.Deleted = deleted
		for _, f := range cleanFailures {
			cat.Failed = append(cat.Failed, catalog.Page{Title: f.Title, Error: f.Err.Error()})
		}
		failures = append(failures, cleanFailures...)
	}

	cat.Finish(time.Now().UTC())

	if len(failures) > 0 {
		return cat, &PartialError{Failures: failures}
	}
	return cat, nil
}

// collect drains the record source before any remote call is made, so input
// problems abort the run with no remote side effects.
func (p *Publisher) collect() ([]internal.Record, error) {
	var records []internal.Record
	for {
		record, err := p.source.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading inventory: %w", err)
		}
		records = append(records, *record)
	}
}

// reconcile writes one page: update when a page with the title already lives
// under the parent, create otherwise. The existing body is never compared;
// an update is issued even when nothing changed.
func (p *Publisher) reconcile(ctx context.Context, title, body string) (string, *internal.PageRef, error) {
	existing, err := p.wiki.FindPageByTitle(ctx, p.parentID, title)
	if err != nil {
		return "find", nil, err
	}

	if existing == nil {
		ref, err := p.wiki.CreatePage(ctx, p.parentID, title, body)
		if err != nil {
			return actionCreate, nil, err
		}
		return actionCreate, ref, nil
	}

	if err := p.wiki.UpdatePage(ctx, existing, body); err != nil {
		return actionUpdate, nil, err
	}
	return actionUpdate, existing, nil
}
