package tui

import (
	"fmt"
	"strings"

	"planboard/internal/model"
	"planboard/internal/workspace"

	"github.com/charmbracelet/lipgloss"
)

func statusColor(s model.TaskStatus) lipgloss.AdaptiveColor {
	switch s {
	case model.TaskInProgress:
		return colorStatusInProgress
	case model.TaskCompleted:
		return colorStatusCompleted
	default:
		return colorStatusPending
	}
}

func levelColor(l workspace.Level) lipgloss.AdaptiveColor {
	switch l {
	case workspace.LevelSuccess:
		return colorSuccess
	case workspace.LevelError:
		return colorError
	default:
		return colorInfo
	}
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var body string
	switch m.view {
	case viewProjects:
		body = m.viewProjects()
	default:
		body = m.viewProject()
	}

	bodyH := m.height - headerHeight - footerHeight
	if bodyH < 1 {
		bodyH = 1
	}
	out := lipgloss.JoinVertical(lipgloss.Left,
		fitPane(m.viewHeader(), m.width, headerHeight),
		fitPane(body, m.width, bodyH),
		fitPane(m.viewFooter(), m.width, footerHeight),
	)

	if modal := m.viewModal(); modal != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}
	return out
}

func (m appModel) viewHeader() string {
	crumb := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("planboard")
	if m.view == viewProject {
		name := m.projectNames[m.projectID]
		if name == "" {
			name = m.projectID
		}
		crumb += styleMuted().Render(" / ") + lipgloss.NewStyle().Bold(true).Render(name)
	}
	return crumb + "\n" + styleMuted().Render(strings.Repeat(glyphHRule(), max(m.width, 1)))
}

func (m appModel) viewProjects() string {
	if len(m.projectsList.Items()) == 0 {
		return styleMuted().Render("No projects yet. Create one with: planboard projects create")
	}
	return m.projectsList.View()
}

func (m appModel) viewProject() string {
	leftW := m.leftWidth()
	rightW := m.width - leftW - 3
	if rightW < 10 {
		rightW = 10
	}
	bodyH := m.height - headerHeight - footerHeight
	if bodyH < 1 {
		bodyH = 1
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.panelTitle("Tasks", len(m.tasksList.Items()), m.pane == paneTasks),
		m.tasksList.View(),
		m.panelTitle("Comments", len(m.commentsList.Items()), m.pane == paneComments),
		m.commentsList.View(),
	)
	sep := styleMuted().Render(strings.TrimRight(strings.Repeat("│\n", bodyH), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		fitPane(left, leftW, bodyH),
		" ", sep, " ",
		fitPane(m.viewDetail(rightW), rightW, bodyH),
	)
}

func (m appModel) panelTitle(name string, n int, active bool) string {
	st := lipgloss.NewStyle().Bold(true)
	if active {
		st = st.Foreground(colorAccent)
	} else {
		st = faintIfDark(st.Foreground(colorMuted))
	}
	return st.Render(fmt.Sprintf("%s (%d)", name, n))
}

func (m appModel) viewDetail(width int) string {
	cur, ok := m.ws.Selection.Current()
	if !ok {
		return styleMuted().Render("Nothing selected")
	}

	var b strings.Builder
	switch it := cur.(type) {
	case workspace.TaskDetail:
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(it.Title))
		b.WriteString("\n")
		badge := lipgloss.NewStyle().Foreground(statusColor(it.Status)).
			Render(glyphStatus(it.Status) + " " + it.Status.Label())
		b.WriteString(badge)
		if m.ws.Tasks.Pending(it.ID) {
			b.WriteString(" " + styleMuted().Render(glyphPending()+" saving"))
		}
		b.WriteString("\n\n")
		if it.Description == nil || strings.TrimSpace(*it.Description) == "" {
			b.WriteString(styleMuted().Render("No description"))
		} else {
			b.WriteString(renderMarkdown(*it.Description, width))
		}
	case workspace.CommentDetail:
		b.WriteString(lipgloss.NewStyle().Bold(true).Render("Comment"))
		if m.ws.Comments.Pending(it.ID) {
			b.WriteString(" " + styleMuted().Render(glyphPending()+" saving"))
		}
		b.WriteString("\n")
		meta := "by " + it.AuthorID + " · " + it.CreatedAt.Local().Format("2006-01-02 15:04")
		if it.UpdatedAt.After(it.CreatedAt) {
			meta += " · edited " + it.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		b.WriteString(styleMuted().Render(meta))
		b.WriteString("\n\n")
		b.WriteString(renderMarkdown(it.Content, width))
	}
	return b.String()
}

func (m appModel) viewFooter() string {
	var line string
	if m.flash.text != "" {
		line = lipgloss.NewStyle().Foreground(levelColor(m.flash.level)).Render(m.flash.text)
	}
	return line + "\n" + styleMuted().Render(m.helpLine())
}

func (m appModel) helpLine() string {
	switch {
	case m.modal == modalConfirmDelete:
		return "tab: focus  y: delete  esc: cancel"
	case m.modal != modalNone:
		return "ctrl+s: save  tab: next field  esc: cancel"
	case m.view == viewProjects:
		return "enter: open  r: reload  q: quit"
	default:
		return "tab: pane  n: new  c: comment  e: edit  s: status  d: delete  r: reload  esc: back  q: quit"
	}
}

func (m appModel) viewModal() string {
	switch m.modal {
	case modalNone:
		return ""
	case modalConfirmDelete:
		return renderConfirmModal(m.width, "Delete", m.confirmBody(), "Delete", "Cancel", m.confirmFocus)
	}

	var title string
	switch m.modal {
	case modalNewTask:
		title = "New task"
	case modalEditTask:
		title = "Edit task"
	case modalNewComment:
		title = "New comment"
		if m.newForTaskID != "" {
			title = "New comment on task " + m.newForTaskID
		}
	case modalEditComment:
		title = "Edit comment"
	}

	var parts []string
	if m.modal == modalNewTask || m.modal == modalEditTask {
		parts = append(parts, m.titleInput.View(), "")
	}
	parts = append(parts, m.bodyInput.View())
	if m.modalErr != "" {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(colorError).
			Width(modalBodyWidth(m.width)).Render(m.modalErr))
	}
	return renderModalBox(m.width, title, strings.Join(parts, "\n"))
}

func (m appModel) confirmBody() string {
	switch it := m.confirm.Target().(type) {
	case workspace.TaskDetail:
		return fmt.Sprintf("Delete task %q?", it.Title)
	case workspace.CommentDetail:
		return fmt.Sprintf("Delete comment %q?", commentSummary(it.Content))
	}
	return "Delete the selected item?"
}
