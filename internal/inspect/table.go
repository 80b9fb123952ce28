package inspect

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"svcctl/internal/registry"
	"svcctl/internal/services"
)

// MaxCellWidth bounds every rendered cell; longer text is cut with an ellipsis.
const MaxCellWidth = 32

// Headers are the column titles of the slot table.
var Headers = []string{"ID", "NAME", "STATUS", "LIVE", "CREATE DEPS", "DESTROY DEPS", "DEPENDENTS"}

const statusColumn = 2

// Rows turns a snapshot into table rows, one per slot, in snapshot order.
func Rows(slots []registry.SlotInfo) [][]string {
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		live := "-"
		if s.Live {
			live = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.ID),
			truncate(s.Name, MaxCellWidth),
			s.Status.String(),
			live,
			truncate(formatIDs(s.CreateRequires), MaxCellWidth),
			truncate(formatIDs(s.DestroyRequires), MaxCellWidth),
			truncate(formatIDs(s.DestroyDependents), MaxCellWidth),
		})
	}
	return rows
}

// Render draws the snapshot as a bordered, coloured table followed by a
// one-line summary.
func Render(slots []registry.SlotInfo) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		Headers(Headers...).
		Rows(Rows(slots)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == statusColumn && row >= 0 && row < len(slots) {
				return statusStyle(slots[row].Status)
			}
			return cellStyle
		})

	return lipgloss.JoinVertical(lipgloss.Left, t.String(), summaryStyle.Render(Summary(slots)))
}

// RenderPlain draws the snapshot as aligned plain text without colours or
// borders, suitable for the clipboard.
func RenderPlain(slots []registry.SlotInfo) string {
	rows := Rows(slots)

	widths := make([]int, len(Headers))
	for i, h := range Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}

	writeRow(Headers)
	for _, row := range rows {
		writeRow(row)
	}
	b.WriteString(Summary(slots))
	b.WriteString("\n")
	return b.String()
}

// Summary counts registered, live and failed services.
func Summary(slots []registry.SlotInfo) string {
	live, failed := 0, 0
	for _, s := range slots {
		if s.Live {
			live++
		}
		if s.Status == registry.StatusException {
			failed++
		}
	}
	return fmt.Sprintf("%d services, %d live, %d failed", len(slots), live, failed)
}

func formatIDs(ids []services.ID) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

// truncate cuts s to at most width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}
