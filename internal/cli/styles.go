package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains the styles used for terminal output
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Date    lipgloss.Style
	Time    lipgloss.Style
	Hours   lipgloss.Style
	Total   lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

// NewStyles returns styles rendering for w. Colors are dropped when w is not
// a terminal.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)

	// Color palette
	primary := lipgloss.Color("99")     // Purple
	secondary := lipgloss.Color("39")   // Cyan
	accent := lipgloss.Color("212")     // Pink
	muted := lipgloss.Color("240")      // Gray
	success := lipgloss.Color("82")     // Green
	warning := lipgloss.Color("214")    // Orange
	errorColor := lipgloss.Color("196") // Red

	return Styles{
		Title: r.NewStyle().
			Foreground(primary).
			Bold(true),
		Header: r.NewStyle().
			Foreground(muted).
			Bold(true),
		Label: r.NewStyle().
			Foreground(primary).
			Width(6),
		Date: r.NewStyle().
			Width(12),
		Time: r.NewStyle().
			Foreground(secondary).
			Width(10),
		Hours: r.NewStyle().
			Foreground(accent).
			Width(7).
			Align(lipgloss.Right),
		Total: r.NewStyle().
			Foreground(accent).
			Bold(true).
			Width(7).
			Align(lipgloss.Right),
		Muted: r.NewStyle().
			Foreground(muted),
		Error: r.NewStyle().
			Foreground(errorColor),
		Warning: r.NewStyle().
			Foreground(warning),
		Success: r.NewStyle().
			Foreground(success),
	}
}
