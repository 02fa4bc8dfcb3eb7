package internal

import "strings"

// NotTagged is the sentinel rendered in place of an empty name tag.
const NotTagged = "(not tagged)"

// Record is one row of the AWS resource inventory export. Fields are fixed
// when the row is decoded; the Service column becomes Group, the sole
// partition key deciding which page the record lands on.
type Record struct {
	Identifier string
	Name       string
	Type       string
	Region     string
	ARN        string
	Group      string
}

// DisplayName returns the name tag, or the NotTagged sentinel when the
// resource carries none.
func (r Record) DisplayName() string {
	if r.Name == "" {
		return NotTagged
	}
	return r.Name
}

// GroupKey is the lower-cased comparison key used for ignore filtering and
// grouping. Display casing stays in Group itself.
func (r Record) GroupKey() string {
	return strings.ToLower(r.Group)
}

// TypeKey is the lower-cased comparison key used for resource type
// filtering.
func (r Record) TypeKey() string {
	return strings.ToLower(r.Type)
}
