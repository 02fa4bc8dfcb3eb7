package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dunterov/aws-csv-to-confluence/internal"
)

// Header names the inventory export writes. Matching is exact and
// case-sensitive; extra columns are ignored.
const (
	colIdentifier = "Identifier"
	colNameTag    = "Tag: Name"
	colType       = "Type"
	colRegion     = "Region"
	colARN        = "ARN"
	colService    = "Service"
)

var requiredColumns = []string{
	colIdentifier,
	colNameTag,
	colType,
	colRegion,
	colARN,
	colService,
}

// SchemaError reports required header columns missing from the input
// document.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("csv: missing required columns: %s", strings.Join(e.Missing, ", "))
}

type SourceOption func(*Source)

func WithLogger(l *zap.Logger) SourceOption {
	return func(s *Source) {
		s.logger = l
	}
}

// Source streams inventory records out of a CSV document. The header row is
// validated once at construction; data rows are decoded by column name, so
// column order does not matter.
type Source struct {
	reader *csv.Reader
	index  map[string]int
	logger *zap.Logger

	row int
}

// NewSource reads and validates the header row before any record is
// produced. Missing required columns surface as a *SchemaError.
func NewSource(r io.Reader, opts ...SourceOption) (*Source, error) {
	s := Source{
		reader: csv.NewReader(r),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&s)
	}

	header, err := s.reader.Read()
	if err == io.EOF {
		return nil, &SchemaError{Missing: requiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("csv: reading header: %w", err)
	}

	s.index = make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := s.index[name]; !ok {
			s.index[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := s.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Missing: missing}
	}

	return &s, nil
}

// Next returns the next record, or io.EOF once the document is exhausted.
// Values are carried verbatim; an empty identifier is logged but still
// produced, since rendering does not depend on it.
func (s *Source) Next() (*internal.Record, error) {
	row, err := s.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("csv: row %d: %w", s.row+1, err)
	}
	s.row++

	record := internal.Record{
		Identifier: row[s.index[colIdentifier]],
		Name:       row[s.index[colNameTag]],
		Type:       row[s.index[colType]],
		Region:     row[s.index[colRegion]],
		ARN:        row[s.index[colARN]],
		Group:      row[s.index[colService]],
	}

	if record.Identifier == "" {
		s.logger.Warn("record has no identifier",
			zap.Int("row", s.row),
			zap.String("group", record.Group),
		)
	}

	return &record, nil
}
