package publisher

import (
	"fmt"
	"strings"

	"github.com/dunterov/aws-csv-to-confluence/internal"
	"github.com/dunterov/aws-csv-to-confluence/internal/inventory"
)

const titlePrefix = "[AWS]"

// tableHeader is the fixed wiki markup header row. The five columns below
// are the only ones published, whatever else the source document carries.
const tableHeader = "||Identifier||Name||Type||Region||ARN||"

// PageTitle builds the page title for a group. The title doubles as the
// join key against existing pages, so equal group and subtitle must always
// produce the identical string.
func PageTitle(display, subtitle string) string {
	if subtitle != "" {
		return fmt.Sprintf("%s [%s] %s", titlePrefix, subtitle, display)
	}
	return fmt.Sprintf("%s %s", titlePrefix, display)
}

// RenderBody renders a group as a wiki markup table, one row per record in
// stored order. Values pass through verbatim; only an absent name tag is
// rewritten, to the NotTagged sentinel. Field validation is the source's
// concern, so a record with an empty identifier still renders, with an
// empty cell.
func RenderBody(group inventory.PageGroup) string {
	var b strings.Builder
	b.WriteString(tableHeader)
	for _, r := range group.Records {
		b.WriteString("\n")
		b.WriteString(renderRow(r))
	}
	return b.String()
}

func renderRow(r internal.Record) string {
	return fmt.Sprintf("|%s|%s|%s|%s|%s|",
		r.Identifier,
		r.DisplayName(),
		r.Type,
		r.Region,
		r.ARN,
	)
}
