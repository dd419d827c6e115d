package tui

import (
	"strings"

	"planboard/internal/workspace"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 2
	footerHeight = 2
)

func (m *appModel) resizeLists() {
	bodyH := m.height - headerHeight - footerHeight
	if bodyH < 4 {
		bodyH = 4
	}
	m.projectsList.SetSize(m.width, bodyH)

	leftW := m.leftWidth()
	// Each panel spends one line on its title.
	tasksH := (bodyH - 2) * 3 / 5
	commentsH := bodyH - 2 - tasksH
	if tasksH < 1 {
		tasksH = 1
	}
	if commentsH < 1 {
		commentsH = 1
	}
	m.tasksList.SetSize(leftW, tasksH)
	m.commentsList.SetSize(leftW, commentsH)

	m.titleInput.Width = modalBodyWidth(m.width) - 2
	m.bodyInput.SetWidth(modalBodyWidth(m.width))
}

func (m appModel) leftWidth() int {
	w := m.width * 2 / 5
	if w < 24 {
		w = 24
	}
	if m.width > 0 && w > m.width-10 {
		w = m.width / 2
	}
	return w
}

// refreshLists rebuilds both panels from the cache, keeping the cursor on the selected
// entity when it is still listed.
func (m *appModel) refreshLists() {
	if m.projectID == "" {
		return
	}
	if entry, ok := m.ws.Cache.Read(workspace.TaskKey(m.projectID)); ok {
		tasks := entry.Tasks()
		items := make([]list.Item, 0, len(tasks))
		for _, t := range tasks {
			items = append(items, taskItem{
				id:      t.ID,
				title:   t.Title,
				status:  lipgloss.NewStyle().Foreground(statusColor(t.Status)).Render(glyphStatus(t.Status)),
				pending: m.ws.Tasks.Pending(t.ID),
			})
		}
		setItemsKeepingCursor(&m.tasksList, items, m.selectedID(workspace.ResourceTasks))
	}
	if entry, ok := m.ws.Cache.Read(workspace.CommentKey(m.projectID)); ok {
		comments := entry.Comments()
		items := make([]list.Item, 0, len(comments))
		for _, c := range comments {
			items = append(items, commentItem{
				id:      c.ID,
				summary: commentSummary(c.Content),
				pending: m.ws.Comments.Pending(c.ID),
			})
		}
		setItemsKeepingCursor(&m.commentsList, items, m.selectedID(workspace.ResourceComments))
	}
}

func (m appModel) selectedID(resource workspace.ResourceType) string {
	cur, ok := m.ws.Selection.Current()
	if !ok || cur.Key().Resource != resource {
		return ""
	}
	return cur.EntityID()
}

func setItemsKeepingCursor(l *list.Model, items []list.Item, selectedID string) {
	idx := l.Index()
	l.SetItems(items)
	if selectedID != "" {
		for i, it := range items {
			if itemID(it) == selectedID {
				l.Select(i)
				return
			}
		}
	}
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx < 0 {
		idx = 0
	}
	l.Select(idx)
}

func itemID(it list.Item) string {
	switch v := it.(type) {
	case taskItem:
		return v.id
	case commentItem:
		return v.id
	case projectItem:
		return v.id
	}
	return ""
}

// commentSummary is the first non-empty line of a comment body.
func commentSummary(content string) string {
	for _, ln := range strings.Split(content, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			return ln
		}
	}
	return "(empty)"
}
