package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dunterov/aws-csv-to-confluence/internal"
)

func record(id, rtype, group string) internal.Record {
	return internal.Record{
		Identifier: id,
		Type:       rtype,
		Region:     "us-east-1",
		Group:      group,
	}
}

func TestFilter_KeepIsCaseInsensitive(t *testing.T) {
	f := NewFilter(
		WithIgnoreGroups([]string{"EC2"}),
		WithIgnoreResourceTypes([]string{"Snapshot"}),
	)

	tests := []struct {
		name string
		r    internal.Record
		keep bool
	}{
		{"group matches different case", record("i-1", "instance", "ec2"), false},
		{"group matches same case", record("i-2", "instance", "EC2"), false},
		{"type matches different case", record("snap-1", "snapshot", "rds"), false},
		{"neither matches", record("db-1", "db", "rds"), true},
		{"empty group not ignored", record("x-1", "instance", ""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keep, f.Keep(tt.r))
		})
	}
}

func TestFilter_EmptyIgnoreListsKeepEverything(t *testing.T) {
	f := NewFilter()
	records := []internal.Record{
		record("i-1", "instance", "ec2"),
		record("", "", ""),
	}
	assert.Equal(t, records, f.Apply(records))
}

func TestFilter_IgnoreListsAreNormalized(t *testing.T) {
	f := NewFilter(WithIgnoreGroups([]string{" ec2 ", "", "RDS"}))

	assert.False(t, f.Keep(record("i-1", "instance", "EC2")))
	assert.False(t, f.Keep(record("db-1", "db", "rds")))
	assert.True(t, f.Keep(record("fn-1", "function", "lambda")))
}

// Dropping by group then by type must land on the same records as the
// single combined pass, whichever dimension is considered first.
func TestFilter_DimensionsCommute(t *testing.T) {
	records := []internal.Record{
		record("i-1", "instance", "ec2"),
		record("snap-1", "snapshot", "ec2"),
		record("snap-2", "snapshot", "rds"),
		record("db-1", "db", "rds"),
		record("fn-1", "function", "lambda"),
	}

	combined := NewFilter(
		WithIgnoreGroups([]string{"ec2"}),
		WithIgnoreResourceTypes([]string{"snapshot"}),
	)
	groupsOnly := NewFilter(WithIgnoreGroups([]string{"ec2"}))
	typesOnly := NewFilter(WithIgnoreResourceTypes([]string{"snapshot"}))

	groupsFirst := typesOnly.Apply(groupsOnly.Apply(records))
	typesFirst := groupsOnly.Apply(typesOnly.Apply(records))

	assert.Equal(t, combined.Apply(records), groupsFirst)
	assert.Equal(t, combined.Apply(records), typesFirst)
	assert.Equal(t, []internal.Record{
		record("db-1", "db", "rds"),
		record("fn-1", "function", "lambda"),
	}, groupsFirst)
}
