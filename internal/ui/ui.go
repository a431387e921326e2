package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nomadcxx/tvtools/internal/reporter"
)

// chrome is the number of lines taken by the header and footer
const chrome = 2

// Model shows a run report. In review mode Enter confirms the plan.
type Model struct {
	report    *reporter.Report
	reviewing bool
	viewport  viewport.Model
	ready     bool
	width     int
	height    int
	confirmed bool
}

// NewReviewModel shows a simulated plan that the user may confirm.
func NewReviewModel(report *reporter.Report) Model {
	return Model{report: report, reviewing: true}
}

// NewViewModel shows a saved report read-only.
func NewViewModel(report *reporter.Report) Model {
	return Model{report: report}
}

// Confirmed reports whether the user pressed Enter on a reviewable plan.
func (m Model) Confirmed() bool {
	return m.confirmed
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "enter":
			if m.reviewing && m.hasChanges() {
				m.confirmed = true
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chrome)
			m.viewport.SetContent(RenderReport(m.report))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chrome
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	title := "TVTOOLS REPORT"
	keys := []string{
		FormatKeybinding("↑↓", "Scroll"),
		FormatKeybinding("PgUp/PgDn", "Page"),
	}
	if m.reviewing {
		title = "TVTOOLS REVIEW (NOTHING CHANGED YET)"
		if m.hasChanges() {
			keys = append(keys, FormatKeybinding("Enter", "Apply"))
		}
	}
	keys = append(keys,
		FormatKeybinding("Esc", "Exit"),
		MutedStyle.Render(fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		FormatHeader(title, m.width),
		m.viewport.View(),
		FormatFooter(m.width, keys...),
	)
}

func (m Model) hasChanges() bool {
	return len(m.report.Renames) > 0 || len(m.report.Moves) > 0
}

// RenderReport renders the scrollable body of a report.
func RenderReport(report *reporter.Report) string {
	var sb strings.Builder

	sb.WriteString(FormatASCIIHeader() + "\n\n")

	sb.WriteString(InfoStyle.Render("Generated: ") + ContentStyle.Render(report.Timestamp.Format("2006-01-02 15:04:05")) + "\n")
	sb.WriteString(InfoStyle.Render("Verbs: ") + ContentStyle.Render(strings.Join(report.Verbs, ", ")) + "\n")
	sb.WriteString(InfoStyle.Render("Paths: ") + ContentStyle.Render(strings.Join(report.Paths, ", ")) + "\n")
	if report.Options.NoExec {
		sb.WriteString(WarningStyle.Render("Simulated run, no file was touched") + "\n")
	}

	sb.WriteString(TitleStyle.Render("SUMMARY") + "\n")
	sb.WriteString(InfoStyle.Render("Renames: ") + StatStyle.Render(fmt.Sprintf("%d", len(report.Renames))) + "\n")
	sb.WriteString(InfoStyle.Render("Moves: ") + StatStyle.Render(fmt.Sprintf("%d", len(report.Moves))) + "\n")
	sb.WriteString(InfoStyle.Render("Skipped: ") + StatStyle.Render(fmt.Sprintf("%d", len(report.Skipped))) + "\n")
	sb.WriteString(InfoStyle.Render("Errors: ") + StatStyle.Render(fmt.Sprintf("%d", len(report.Errors))) + "\n")

	if len(report.Detections) > 0 {
		sb.WriteString(TitleStyle.Render("DETECTED STYLES") + "\n")
		for _, d := range report.Detections {
			line := ContentStyle.Render(d.Path) + " " + StatStyle.Render(d.Style.String())
			if d.Reclassified {
				line += " " + MutedStyle.Render("(reclassified from flat)")
			}
			if d.Ambiguous {
				line += " " + WarningStyle.Render("(ambiguous: very few files)")
			}
			sb.WriteString(line + "\n")
		}
	}

	if len(report.Renames) > 0 {
		sb.WriteString(TitleStyle.Render("RENAMES") + "\n")
		for _, op := range report.Renames {
			sb.WriteString(fmt.Sprintf("  %s\n    %s %s\n",
				FromStyle.Render(op.OldName),
				MutedStyle.Render("→"),
				ToStyle.Render(op.NewName)))
		}
	}

	if len(report.Moves) > 0 {
		sb.WriteString(TitleStyle.Render("MOVES") + "\n")
		for _, mv := range report.Moves {
			sb.WriteString("  " + ContentStyle.Render(mv.String()) + "\n")
		}
	}

	if len(report.Skipped) > 0 {
		sb.WriteString(TitleStyle.Render("ALREADY STRUCTURED") + "\n")
		for _, path := range report.Skipped {
			sb.WriteString("  " + MutedStyle.Render(path) + "\n")
		}
	}

	if len(report.Errors) > 0 {
		sb.WriteString(TitleStyle.Render("ERRORS") + "\n")
		for _, e := range report.Errors {
			sb.WriteString("  " + ErrorStyle.Render(e.Path) + " " + ContentStyle.Render(e.Error) + "\n")
		}
	}

	if len(report.Renames) == 0 && len(report.Moves) == 0 {
		sb.WriteString("\n" + MutedStyle.Render("Nothing to change.") + "\n")
	}

	return sb.String()
}
