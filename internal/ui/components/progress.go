package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/robosim/internal/ui/theme"
)

// ProgressBar is a horizontal bar with an optional "done/total" suffix.
type ProgressBar struct {
	Done, Total int
	Width       int
}

// NewProgressBar creates a bar of the given width for done out of total.
func NewProgressBar(done, total, width int) ProgressBar {
	return ProgressBar{Done: done, Total: total, Width: width}
}

// Fraction returns Done/Total clamped to [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

// View renders the bar.
func (p ProgressBar) View() string {
	suffix := fmt.Sprintf(" %d/%d", p.Done, p.Total)
	barWidth := max(p.Width-len(suffix), 4)
	filled := int(float64(barWidth) * p.Fraction())

	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Dim.Render(suffix)
}
