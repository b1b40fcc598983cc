package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/robosim/internal/ui/theme"
)

// Panel draws a titled rounded box of the given outer width.
func Panel(title, content string, width int) string {
	body := content
	if title != "" {
		body = theme.Section.Render(title) + "\n" + content
	}
	return theme.Card.Width(max(width, 10)).Render(strings.TrimRight(body, "\n"))
}

// KV is one label/value row in a Panel.
type KV struct {
	Key   string
	Value string
}

// KVList renders aligned label/value rows.
func KVList(rows []KV) string {
	w := 0
	for _, r := range rows {
		w = max(w, lipgloss.Width(r.Key))
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(theme.Dim.Render(fmt.Sprintf("%-*s", w, r.Key)))
		b.WriteString("  ")
		b.WriteString(theme.Body.Render(r.Value))
		b.WriteByte('\n')
	}
	return b.String()
}
