package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/grid"
	"github.com/ryanm101/gamehub/internal/view"
)

var toneColors = map[view.Tone]lipgloss.Color{
	view.ToneGreen:   lipgloss.Color("2"),
	view.ToneYellow:  lipgloss.Color("3"),
	view.ToneNeutral: lipgloss.Color("245"),
}

var iconLabels = map[string]string{
	"windows":     "PC",
	"playstation": "PS",
	"xbox":        "XB",
	"nintendo":    "NS",
	"apple":       "Mac",
	"linux":       "Linux",
	"android":     "Android",
	"phone":       "iOS",
	"globe":       "Web",
}

func (m model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	selectedStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("57")).
		Foreground(lipgloss.Color("255"))

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("🎮 "+m.grid.Heading) + "\n")
	b.WriteString(dimStyle.Render(m.filterLine()) + "\n")
	if m.searching {
		b.WriteString(m.search.View() + "\n")
	}
	b.WriteString("\n")

	switch m.grid.State {
	case grid.LoadingFirstPage:
		for i := 0; i < m.grid.Skeletons; i++ {
			b.WriteString(dimStyle.Render("  ░░░░░░░░░░░░░░░░░░░░░░░░  ░░░░  ░░") + "\n")
		}
	case grid.Empty:
		b.WriteString("No games found.\n")
	}

	start, end := m.window()
	for i := start; i < end; i++ {
		line := m.cardLine(m.grid.Cards[i])
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if len(m.grid.Cards) > end-start {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (%d/%d)", m.cursor+1, len(m.grid.Cards))) + "\n")
	}

	switch {
	case m.grid.Error != "":
		b.WriteString("\n" + errorStyle.Render(m.grid.Error) + "\n")
		b.WriteString(dimStyle.Render("Press r to retry") + "\n")
	case m.grid.State == grid.LoadingNextPage:
		b.WriteString("\n" + m.spinner.View() + " Loading more...\n")
	}

	if m.trailer != "" {
		b.WriteString("\n🎬 " + m.trailer + "\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	b.WriteString(helpStyle.Render("j/k: nav | /: search | g: genre | p: platform | o: order | enter: trailer | r: retry | ?: help | q: quit"))

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("241"))
		b.WriteString("\n" + statusStyle.Render(" "+m.statusMsg))
	}

	return b.String()
}

// window returns the range of cards that fits the terminal.
func (m model) window() (int, int) {
	visible := m.height - 12
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.grid.Cards))
	return start, end
}

func (m model) filterLine() string {
	q := m.query()
	genre := "All genres"
	if g, ok := q.Genre.Get(); ok {
		genre = view.GenreName(g)
	}
	platform := "All platforms"
	if p, ok := q.Platform.Get(); ok {
		platform = view.PlatformName(p)
	}
	line := fmt.Sprintf("%s · %s · Order by: %s", genre, platform, game.SortLabel(q.SortOrder))
	if q.SearchText != "" {
		line += fmt.Sprintf(" · %q", q.SearchText)
	}
	return line
}

func (m model) cardLine(c view.Card) string {
	line := fmt.Sprintf("%-40s", truncate(c.Name, 40))

	if icons, ok := c.Platforms.Get(); ok {
		labels := make([]string, 0, len(icons))
		for _, ic := range icons {
			labels = append(labels, iconLabel(ic))
		}
		line += " " + fmt.Sprintf("%-24s", truncate(strings.Join(labels, " "), 24))
	} else {
		line += " " + strings.Repeat(" ", 24)
	}

	if s, ok := c.Score.Get(); ok {
		line += " " + lipgloss.NewStyle().Bold(true).Foreground(toneColors[s.Tone]).Render(fmt.Sprintf("%3d", s.Score))
	}
	return line
}

func iconLabel(ic view.PlatformIcon) string {
	if l, ok := iconLabels[ic.Icon]; ok {
		return l
	}
	return ic.Name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (m model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Width(10)

	keys := [][2]string{
		{"j/k", "Move down/up; more games load near the end"},
		{"G", "Jump to the last loaded game"},
		{"/", "Search by name"},
		{"g", "Next genre"},
		{"p", "Next platform"},
		{"o", "Next sort order"},
		{"enter", "Show the selected game's trailer"},
		{"r", "Retry after an error"},
		{"q", "Quit"},
	}

	lines := []string{titleStyle.Render("⌨️  Keyboard Shortcuts")}
	for _, k := range keys {
		lines = append(lines, keyStyle.Render(k[0])+k[1])
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("Press any key to close"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(1, 2)
	return boxStyle.Render(strings.Join(lines, "\n"))
}
