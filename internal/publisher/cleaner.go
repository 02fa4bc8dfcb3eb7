package publisher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dunterov/aws-csv-to-confluence/internal"
	"github.com/dunterov/aws-csv-to-confluence/internal/catalog"
)

// cleanup deletes the parent's stale children: pages this run did not touch
// and that were last modified before the run started. Deletes are best
// effort; one failure never stops the remaining deletions.
func (p *Publisher) cleanup(ctx context.Context, touched map[string]struct{}, runStart time.Time) ([]catalog.Page, []Failure) {
	children, err := p.wiki.ListChildPages(ctx, p.parentID)
	if err != nil {
		p.logger.Error("listing child pages failed", zap.Error(err))
		return nil, []Failure{{Op: "list", Title: "children of " + p.parentID, Err: err}}
	}

	var deleted []catalog.Page
	var failures []Failure
	for _, child := range stale(children, touched, runStart) {
		if err := p.wiki.DeletePage(ctx, &child.PageRef); err != nil {
			p.logger.Error("removing stale page failed",
				zap.String("title", child.Title),
				zap.String("page_id", child.ID),
				zap.Error(err),
			)
			failures = append(failures, Failure{Op: "delete", Title: child.Title, Err: err})
			continue
		}

		p.logger.Info("removed stale page",
			zap.String("title", child.Title),
			zap.String("page_id", child.ID),
			zap.Time("last_modified", child.LastModified),
		)
		deleted = append(deleted, catalog.Page{Title: child.Title, ID: child.ID})
	}
	return deleted, failures
}

// stale selects the children that are provably untouched by this run and
// provably predate it. A child modified at or after runStart is kept even
// when untouched: it may be a concurrent edit. A child with no usable
// timestamp is kept because staleness cannot be proven.
func stale(children []internal.ChildPage, touched map[string]struct{}, runStart time.Time) []internal.ChildPage {
	var out []internal.ChildPage
	for _, child := range children {
		if _, ok := touched[child.Title]; ok {
			continue
		}
		if child.LastModified.IsZero() {
			continue
		}
		if !child.LastModified.Before(runStart) {
			continue
		}
		out = append(out, child)
	}
	return out
}
