package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/lunar/internal/taskinfo"
)

// Styles contains lipgloss styles for the task listing
type Styles struct {
	Title lipgloss.Style
	Name  lipgloss.Style
	Args  lipgloss.Style
	About lipgloss.Style
	Muted lipgloss.Style
}

// NewStyles returns the default styles for renderer r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		Name: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Args: r.NewStyle().
			Foreground(lipgloss.Color("226")), // Yellow
		About: r.NewStyle(),
		Muted: r.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
	}
}

// TaskList renders task records as an aligned, styled table. Colors are
// only emitted when the writer is a color terminal.
type TaskList struct {
	Records []taskinfo.Record
}

// RenderText writes the listing to w.
func (l TaskList) RenderText(w io.Writer) error {
	styles := NewStyles(lipgloss.NewRenderer(w))

	var b strings.Builder
	if len(l.Records) == 0 {
		b.WriteString(styles.Muted.Render("No tasks found. Add .luau scripts or *.lunar.toml files to ./lune or ./.lune"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString(styles.Title.Render("Tasks:"))
	b.WriteString("\n")

	usages := make([]string, len(l.Records))
	width := 0
	for i, r := range l.Records {
		usage := styles.Name.Render(r.Name)
		if r.Args != "" {
			usage += " " + styles.Args.Render(r.Args)
		}
		usages[i] = usage
		if n := lipgloss.Width(usage); n > width {
			width = n
		}
	}

	for i, r := range l.Records {
		line := "  " + usages[i]
		about := r.About
		if !r.Runnable() {
			about = strings.TrimSpace(about + " " + styles.Muted.Render("(not runnable)"))
		}
		if about != "" {
			line += strings.Repeat(" ", width-lipgloss.Width(usages[i])+3) + styles.About.Render(about)
		}
		fmt.Fprintln(&b, line)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
