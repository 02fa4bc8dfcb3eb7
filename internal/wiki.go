package internal

import (
	"context"
	"time"
)

// PageRef identifies one wiki page. Version is the remote revision number,
// which updates must echo back incremented.
type PageRef struct {
	ID      string
	Title   string
	Version int
}

// ChildPage is a page listed under the sync parent. LastModified is the zero
// time when the remote metadata was missing or unparseable; such pages are
// never deleted.
type ChildPage struct {
	PageRef
	LastModified time.Time
}

// Wiki is the page repository a sync run works against. Titles are the join
// keys: FindPageByTitle must match exactly and case-sensitively.
type Wiki interface {
	// FindPageByTitle returns the page with the given title under parentID,
	// or nil when no such page exists.
	FindPageByTitle(ctx context.Context, parentID string, title string) (*PageRef, error)
	CreatePage(ctx context.Context, parentID string, title string, body string) (*PageRef, error)
	UpdatePage(ctx context.Context, ref *PageRef, body string) error
	ListChildPages(ctx context.Context, parentID string) ([]ChildPage, error)
	DeletePage(ctx context.Context, ref *PageRef) error
}
