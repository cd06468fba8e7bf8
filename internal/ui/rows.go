package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/ebirch/plover"
	"github.com/ebirch/plover/diff"
	"github.com/ebirch/plover/record"
)

// rowCache holds the rendered string for every visible row position. It is
// the direct consumer of the engine's row plan: Reuse keeps the previously
// rendered string untouched, Rebuild re-renders from the record. The cache
// never second-guesses the plan.
type rowCache struct {
	rows []string
}

// apply executes a row plan, returning how many rows were re-rendered.
func (c *rowCache) apply(actions []diff.RowAction, render func(record.Record) string) int {
	rows := make([]string, len(actions))
	rebuilt := 0
	for _, action := range actions {
		if action.Op == diff.Reuse && action.Index < len(c.rows) {
			rows[action.Index] = c.rows[action.Index]
			continue
		}
		rows[action.Index] = render(action.Item)
		rebuilt++
	}
	c.rows = rows
	return rebuilt
}

// renderRow formats one record across the source's columns.
func (m *Model) renderRow(item record.Record) string {
	level := ""
	if v, ok := item.Field("level"); ok {
		level, _ = v.(string)
	}
	style := m.theme.LevelStyle(level)

	cells := make([]string, 0, len(m.src.Columns))
	for _, col := range m.src.Columns {
		v, ok := item.Field(col)
		if !ok {
			cells = append(cells, "-")
			continue
		}
		cells = append(cells, formatCell(col, v))
	}
	line := strings.Join(cells, "  ")
	if m.width > 0 {
		line = truncate(line, m.width)
	}
	return style.Render(line)
}

// formatCell renders one field value for display.
func formatCell(column string, v any) string {
	switch val := v.(type) {
	case time.Time:
		return humanizeSince(time.Since(val)) + " ago"
	case int64:
		if column == "size" {
			return formatBytes(val)
		}
		return fmt.Sprintf("%d", val)
	case bool:
		if column == "dir" {
			return ternary(val, "dir", "file")
		}
		return fmt.Sprintf("%v", val)
	default:
		return record.FormatValue(v)
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func humanizeSince(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours())/24)
	}
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func truncate(value string, limit int) string {
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// pageLabel summarizes the pagination state for the header.
func pageLabel(f plover.Frame) string {
	return fmt.Sprintf("page %d/%d · %d items", f.Page.Index+1, f.Page.PageCount(), f.Page.Total)
}
