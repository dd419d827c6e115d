package tui

import (
	"errors"
	"strings"
	"time"

	"planboard/internal/model"
	"planboard/internal/validate"
	"planboard/internal/workspace"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case projectsLoadedMsg:
		if msg.err != nil {
			m.setFlash("Could not load projects: "+msg.err.Error(), workspace.LevelError)
			return m, m.finish()
		}
		items := make([]list.Item, 0, len(msg.items))
		for _, it := range msg.items {
			m.projectNames[it.id] = it.name
			items = append(items, it)
		}
		m.projectsList.SetItems(items)
		if id := m.openOnLoad; id != "" {
			m.openOnLoad = ""
			if _, ok := m.projectNames[id]; ok {
				cmd := m.openProject(id)
				return m, tea.Batch(cmd, m.finish())
			}
		}
		return m, m.finish()

	case flashDoneMsg:
		if msg.seq == m.flash.seq {
			m.flash.text = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if out, ok := m.ws.Update(msg); ok {
		m.applyOutcome(out)
		return m, m.finish()
	}
	return m, nil
}

// applyOutcome refreshes panels after the workspace applied a settle or a fetch.
func (m *appModel) applyOutcome(out workspace.Outcome) {
	if out.Op == workspace.OpDelete {
		m.confirm.Settle(out)
	}
	m.confirm.Sync()
	if m.modal == modalConfirmDelete && m.confirm.State() == workspace.ConfirmIdle {
		m.modal = modalNone
	}

	if out.Op == workspace.OpFetch && out.OK && out.Resource == workspace.ResourceTasks &&
		out.ProjectID == m.projectID && m.autoSelect {
		m.autoSelect = false
		if m.ws.Selection.Empty() && m.pane == paneTasks {
			m.refreshLists()
			m.selectCursor()
		}
	}
	m.refreshLists()
}

// finish turns the invalidations and notifications collected during this Update into
// commands: a fetch per invalidated key and a timer that clears the flash line.
func (m *appModel) finish() tea.Cmd {
	var cmds []tea.Cmd
	for _, k := range m.refetch.keys {
		cmds = append(cmds, m.ws.Fetch(m.ctx, k))
	}
	m.refetch.keys = nil
	if m.flash.set {
		m.flash.set = false
		if m.flashFor > 0 {
			seq := m.flash.seq
			cmds = append(cmds, tea.Tick(m.flashFor, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} }))
		}
	}
	return tea.Batch(cmds...)
}

func (m *appModel) setFlash(text string, level workspace.Level) {
	m.flash.text = text
	m.flash.level = level
	m.flash.seq++
	m.flash.set = true
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.modal != modalNone {
		return m.updateModal(msg)
	}

	if m.view == viewProjects {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			it, ok := m.projectsList.SelectedItem().(projectItem)
			if !ok {
				return m, nil
			}
			return m, m.openProject(it.id)
		case "r":
			return m, m.loadProjects()
		}
		var cmd tea.Cmd
		m.projectsList, cmd = m.projectsList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.unmount()
		m.ws.SetProject("")
		m.confirm.Sync()
		m.view = viewProjects
		return m, nil
	case "tab", "shift+tab":
		if m.pane == paneTasks {
			m.pane = paneComments
		} else {
			m.pane = paneTasks
		}
		m.syncPaneFocus()
		m.selectCursor()
		return m, nil
	case "enter":
		m.selectCursor()
		return m, nil
	case "r":
		return m, tea.Batch(
			m.ws.Fetch(m.ctx, workspace.TaskKey(m.projectID)),
			m.ws.Fetch(m.ctx, workspace.CommentKey(m.projectID)),
		)
	case "s", " ":
		return m.toggleSelected()
	case "e":
		m.openEditModal()
		return m, nil
	case "n":
		if m.pane == paneTasks {
			m.openNewModal(modalNewTask, "")
		} else {
			m.openNewModal(modalNewComment, "")
		}
		return m, nil
	case "c":
		taskID := ""
		if cur, ok := m.ws.Selection.Current(); ok {
			if td, ok := cur.(workspace.TaskDetail); ok {
				taskID = td.ID
			}
		}
		m.openNewModal(modalNewComment, taskID)
		return m, nil
	case "d", "delete":
		if err := m.confirm.Request(); err != nil {
			m.setFlash("Nothing selected", workspace.LevelInfo)
			return m, m.finish()
		}
		m.modal = modalConfirmDelete
		m.confirmFocus = confirmFocusCancel
		return m, nil
	}

	var cmd tea.Cmd
	if m.pane == paneTasks {
		m.tasksList, cmd = m.tasksList.Update(msg)
	} else {
		m.commentsList, cmd = m.commentsList.Update(msg)
	}
	m.selectCursor()
	return m, cmd
}

// selectCursor makes the focused panel's cursor row the selection.
func (m *appModel) selectCursor() {
	var (
		key workspace.Key
		id  string
	)
	switch m.pane {
	case paneTasks:
		it, ok := m.tasksList.SelectedItem().(taskItem)
		if !ok {
			return
		}
		key, id = workspace.TaskKey(m.projectID), it.id
	case paneComments:
		it, ok := m.commentsList.SelectedItem().(commentItem)
		if !ok {
			return
		}
		key, id = workspace.CommentKey(m.projectID), it.id
	}
	entry, ok := m.ws.Cache.Read(key)
	if !ok || entry.Items == nil {
		return
	}
	detail, ok := entry.Items.Detail(id)
	if !ok {
		return
	}
	if cur, ok := m.ws.Selection.Current(); ok && cur.Key() == key && cur.EntityID() == id {
		return
	}
	m.ws.Selection.Select(detail)
	m.confirm.Sync()
}

func (m appModel) toggleSelected() (tea.Model, tea.Cmd) {
	cur, _ := m.ws.Selection.Current()
	td, ok := cur.(workspace.TaskDetail)
	if !ok {
		return m, nil
	}
	cmd, err := m.ws.Tasks.ToggleStatus(m.ctx, td)
	if err != nil {
		if !errors.Is(err, workspace.ErrAlreadyPending) {
			m.setFlash(err.Error(), workspace.LevelError)
		}
		return m, m.finish()
	}
	m.refreshLists()
	return m, cmd
}

func (m *appModel) openEditModal() {
	cur, ok := m.ws.Selection.Current()
	if !ok {
		return
	}
	m.modalErr = ""
	m.editTarget = cur
	switch it := cur.(type) {
	case workspace.TaskDetail:
		m.modal = modalEditTask
		m.titleInput.SetValue(it.Title)
		desc := ""
		if it.Description != nil {
			desc = *it.Description
		}
		m.bodyInput.SetValue(desc)
		m.focusEditField(0)
	case workspace.CommentDetail:
		m.modal = modalEditComment
		m.bodyInput.SetValue(it.Content)
		m.focusEditField(1)
	}
}

func (m *appModel) openNewModal(kind modalKind, taskID string) {
	m.modal = kind
	m.modalErr = ""
	m.editTarget = nil
	m.newForTaskID = taskID
	m.titleInput.SetValue("")
	m.bodyInput.SetValue("")
	if kind == modalNewTask {
		m.focusEditField(0)
	} else {
		m.focusEditField(1)
	}
}

func (m *appModel) focusEditField(i int) {
	m.editFocus = i
	if i == 0 {
		m.titleInput.Focus()
		m.bodyInput.Blur()
		return
	}
	m.titleInput.Blur()
	m.bodyInput.Focus()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.modalErr = ""
	m.editTarget = nil
	m.newForTaskID = ""
	m.titleInput.Blur()
	m.bodyInput.Blur()
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal == modalConfirmDelete {
		return m.updateConfirmModal(msg)
	}

	hasTitle := m.modal == modalNewTask || m.modal == modalEditTask
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil
	case "tab", "shift+tab":
		if hasTitle {
			m.focusEditField(1 - m.editFocus)
		}
		return m, nil
	case "ctrl+s":
		return m.submitModal()
	case "enter":
		if m.editFocus == 0 {
			return m.submitModal()
		}
	}

	var cmd tea.Cmd
	if m.editFocus == 0 {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.bodyInput, cmd = m.bodyInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) submitModal() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.titleInput.Value())
	body := strings.TrimSpace(m.bodyInput.Value())

	var (
		cmd tea.Cmd
		err error
	)
	switch m.modal {
	case modalNewTask:
		in := model.NewTask{ProjectID: m.projectID, Title: title}
		if body != "" {
			in.Description = &body
		}
		cmd, err = m.ws.Tasks.Create(m.ctx, in)
	case modalEditTask:
		td, _ := m.editTarget.(workspace.TaskDetail)
		ch := taskChanges(td, title, body)
		if ch.Empty() {
			m.closeModal()
			return m, nil
		}
		cmd, err = m.ws.Tasks.Edit(m.ctx, td, ch)
	case modalNewComment:
		in := model.NewComment{ProjectID: m.projectID, Content: body}
		if m.newForTaskID != "" {
			tid := m.newForTaskID
			in.TaskID = &tid
		}
		cmd, err = m.ws.Comments.Create(m.ctx, in)
	case modalEditComment:
		cd, _ := m.editTarget.(workspace.CommentDetail)
		if body == cd.Content {
			m.closeModal()
			return m, nil
		}
		cmd, err = m.ws.Comments.Edit(m.ctx, cd, model.CommentChanges{Content: &body})
	}

	var fe validate.FieldErrors
	switch {
	case errors.As(err, &fe):
		m.modalErr = fe.Error()
		return m, nil
	case errors.Is(err, workspace.ErrAlreadyPending):
		m.closeModal()
		return m, nil
	case err != nil:
		m.closeModal()
		m.setFlash(err.Error(), workspace.LevelError)
		return m, m.finish()
	}
	m.closeModal()
	m.refreshLists()
	return m, cmd
}

// taskChanges diffs the edit form against the task as it was when the modal opened.
func taskChanges(td workspace.TaskDetail, title, body string) model.TaskChanges {
	var ch model.TaskChanges
	if title != td.Title {
		ch.Title = &title
	}
	old := ""
	if td.Description != nil {
		old = *td.Description
	}
	switch {
	case body == "" && td.Description != nil:
		ch.ClearDescription = true
	case body != "" && body != old:
		ch.Description = &body
	}
	return ch
}

func (m appModel) updateConfirmModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m.confirmDelete()
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirmDelete()
		}
		m.confirm.Cancel()
		m.modal = modalNone
		return m, nil
	case "esc", "n", "q":
		m.confirm.Cancel()
		m.modal = modalNone
		return m, nil
	}
	return m, nil
}

func (m appModel) confirmDelete() (tea.Model, tea.Cmd) {
	cmd, err := m.confirm.Confirm(m.ctx)
	m.modal = modalNone
	switch {
	case err == nil:
		m.refreshLists()
		return m, cmd
	case errors.Is(err, workspace.ErrAlreadyPending):
		return m, nil
	case errors.Is(err, workspace.ErrSelectionChanged):
		m.setFlash("Selection changed; nothing deleted", workspace.LevelInfo)
	default:
		m.setFlash(err.Error(), workspace.LevelError)
	}
	return m, m.finish()
}
