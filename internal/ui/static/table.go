// Package static provides non-interactive terminal output components.
//
// This package renders output that does not require user interaction,
// such as the history table and markdown request summaries.
package static

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/intake/internal/history"
	"github.com/raphi011/intake/internal/ui/styles"
	"github.com/raphi011/intake/internal/ui/wizard/framework"
)

// HistoryHeaders are the columns of the history table.
var HistoryHeaders = []string{"#", "SUBMITTED", "NAME", "DEPARTMENT", "REQUESTS", "STATUS"}

// maxSummaryLen caps the REQUESTS column.
const maxSummaryLen = 40

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// HistoryTableRow formats one history entry to match HistoryHeaders.
// n is the 1-based position shown in the # column.
func HistoryTableRow(n int, e history.Entry) []string {
	p := e.Payload

	submitted := p.SubmittedAt
	if t, err := p.Time(); err == nil {
		submitted = t.Local().Format("2006-01-02 15:04")
	}

	var requests string
	if len(p.Automations) > 0 {
		requests = framework.Truncate(p.Automations[0].Summary, maxSummaryLen)
		if more := len(p.Automations) - 1; more > 0 {
			requests += fmt.Sprintf(" (+%d)", more)
		}
	}

	return []string{strconv.Itoa(n), submitted, p.Name, p.Department, requests, styles.FormatDelivery(e.Delivered)}
}

// RenderHistory renders entries as a table, newest first.
func RenderHistory(entries []history.Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = HistoryTableRow(i+1, e)
	}
	return RenderTable(HistoryHeaders, rows)
}
