package console

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/dunterov/aws-csv-to-confluence/internal/catalog"
)

// Predefined colors, kept consistent across all console output.
var (
	BrightGreen  = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightRed    = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightCyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Console renders the human-facing run summary. Structured logging is the
// zap logger's job; this is only the operator-friendly recap at the end.
type Console struct{}

func New() *Console {
	return &Console{}
}

// Summary prints one row per page the run acted on, then the verdict line.
func (c *Console) Summary(cat *catalog.Catalog) {
	tableData := pterm.TableData{
		{"Action", "Page", "Detail"},
	}

	for _, p := range cat.Created {
		tableData = append(tableData, []string{BrightGreen("created"), p.Title, strconv.Itoa(p.Records) + " records"})
	}
	for _, p := range cat.Updated {
		tableData = append(tableData, []string{BrightCyan("updated"), p.Title, strconv.Itoa(p.Records) + " records"})
	}
	for _, p := range cat.Deleted {
		tableData = append(tableData, []string{BrightYellow("deleted"), p.Title, ""})
	}
	for _, p := range cat.Failed {
		tableData = append(tableData, []string{BrightRed("failed"), p.Title, p.Error})
	}

	if len(tableData) > 1 {
		table := pterm.DefaultTable.
			WithHasHeader().
			WithData(tableData)

		rendered, _ := table.Srender()
		fmt.Println(rendered)
	}

	elapsed := cat.EndTime.Sub(cat.StartTime).Round(time.Millisecond)
	if cat.Completed {
		pterm.Success.Printfln("synced %d records onto %d pages in %s",
			cat.NumRecordsPublished, len(cat.Created)+len(cat.Updated), elapsed)
		return
	}
	pterm.Warning.Printfln("sync finished with %d failed operations in %s",
		len(cat.Failed), elapsed)
}
