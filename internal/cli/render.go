package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/devtrack/taskboard/internal/board"
	"github.com/devtrack/taskboard/internal/models"
)

const columnWidth = 34

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	columnStyle = lipgloss.NewStyle().
			Width(columnWidth).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())

	titleStyles = map[models.TaskState]lipgloss.Style{
		models.StateTodo:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		models.StateInProgress: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		models.StateDone:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	}

	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func renderBoard(w io.Writer, b board.Board, developers []models.Developer) {
	names := make(map[string]string, len(developers))
	for _, d := range developers {
		names[d.ID] = d.FirstName + " " + d.LastName
	}

	columns := make([]string, 0, len(board.ColumnOrder))
	for _, state := range board.ColumnOrder {
		columns = append(columns, renderColumn(state, b.Column(state), names))
	}

	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, columns...))

	if len(b.Unknown) > 0 {
		fmt.Fprintln(w, unknownStyle.Render(fmt.Sprintf("%d task(s) with unrecognized state:", len(b.Unknown))))
		for _, t := range b.Unknown {
			fmt.Fprintf(w, "  #%d %s (%s)\n", t.ID, t.TaskLabel, t.TaskState)
		}
	}
}

func renderColumn(state models.TaskState, tasks []models.Task, names map[string]string) string {
	var sb strings.Builder
	sb.WriteString(titleStyles[state].Render(fmt.Sprintf("%s (%d)", state, len(tasks))))

	for _, t := range tasks {
		sb.WriteString("\n\n")
		sb.WriteString(fmt.Sprintf("#%d %s", t.ID, t.TaskLabel))

		meta := humanize.Time(t.UpdatedAt)
		if t.Assigned() {
			assignee := names[t.AssignedTo]
			if assignee == "" {
				assignee = t.AssignedTo
			}
			meta = "@" + assignee + " · " + meta
		}
		sb.WriteString("\n" + metaStyle.Render(meta))
	}

	return columnStyle.Render(sb.String())
}
