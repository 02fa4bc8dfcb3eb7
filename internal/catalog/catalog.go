package catalog

import (
	"encoding/json"
	"os"
	"time"
)

/*
The catalog is a record of what one sync run did.
The catalog is a primitive for verifying, inventorying and auditing
wiki operations.
*/

// Page is one page the run acted on.
type Page struct {
	Title   string `json:"title,omitempty"`
	ID      string `json:"id,omitempty"`
	Records int    `json:"records,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Catalog represents the outcome of a single sync run.
type Catalog struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	NumSourceRecords    int `json:"num_source_records"`
	NumRecordsPublished int `json:"num_records_published"`
	NumGroups           int `json:"num_groups"`

	Created []Page `json:"created,omitempty"`
	Updated []Page `json:"updated,omitempty"`
	Deleted []Page `json:"deleted,omitempty"`
	Failed  []Page `json:"failed,omitempty"`

	// Completed means every operation of the run succeeded.
	Completed bool `json:"completed"`
}

func New(runID, source string, start time.Time) *Catalog {
	return &Catalog{
		RunID:     runID,
		Source:    source,
		StartTime: start,
	}
}

// Finish stamps the end of the run.
func (c *Catalog) Finish(end time.Time) {
	c.EndTime = end
	c.Completed = len(c.Failed) == 0
}

// WriteFile writes the catalog as indented JSON.
func (c *Catalog) WriteFile(path string) error {
	bs, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0o644)
}
