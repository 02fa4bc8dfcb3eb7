package inventory

import (
	"strings"

	"go.uber.org/zap"

	"github.com/dunterov/aws-csv-to-confluence/internal"
)

type FilterOption func(*Filter)

func WithIgnoreGroups(groups []string) FilterOption {
	return func(f *Filter) {
		f.groups = normalizeSet(groups)
	}
}

func WithIgnoreResourceTypes(types []string) FilterOption {
	return func(f *Filter) {
		f.types = normalizeSet(types)
	}
}

func WithLogger(l *zap.Logger) FilterOption {
	return func(f *Filter) {
		f.logger = l
	}
}

// Filter drops records whose group or resource type is on an ignore list.
// Matching is case-insensitive on both dimensions; an empty ignore list
// matches nothing.
type Filter struct {
	groups map[string]struct{}
	types  map[string]struct{}
	logger *zap.Logger
}

func NewFilter(opts ...FilterOption) *Filter {
	f := Filter{
		groups: map[string]struct{}{},
		types:  map[string]struct{}{},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&f)
	}

	return &f
}

// Keep reports whether the record survives both ignore dimensions.
func (f *Filter) Keep(r internal.Record) bool {
	if _, ok := f.groups[r.GroupKey()]; ok {
		return false
	}
	if _, ok := f.types[r.TypeKey()]; ok {
		return false
	}
	return true
}

// Apply returns the surviving records in input order.
func (f *Filter) Apply(records []internal.Record) []internal.Record {
	kept := make([]internal.Record, 0, len(records))
	for _, r := range records {
		if _, ok := f.groups[r.GroupKey()]; ok {
			f.logger.Debug("skipping record, group ignored",
				zap.String("identifier", r.Identifier),
				zap.String("group", r.Group),
			)
			continue
		}
		if _, ok := f.types[r.TypeKey()]; ok {
			f.logger.Debug("skipping record, resource type ignored",
				zap.String("identifier", r.Identifier),
				zap.String("type", r.Type),
			)
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func normalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}
