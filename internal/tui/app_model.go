package tui

import (
	"context"
	"log/slog"
	"time"

	"planboard/internal/workspace"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewProjects view = iota
	viewProject
)

type pane int

const (
	paneTasks pane = iota
	paneComments
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNewTask
	modalEditTask
	modalNewComment
	modalEditComment
	modalConfirmDelete
)

type projectsLoadedMsg struct {
	items []projectItem
	err   error
}

type flashDoneMsg struct{ seq int }

// flashLine is shared with the workspace notifier, which runs inside Update.
type flashLine struct {
	text  string
	level workspace.Level
	seq   int
	// set is true when a notification arrived since the last Update returned.
	set bool
}

// refetchQueue collects cache keys invalidated during one Update; the model drains it
// into fetch commands before returning.
type refetchQueue struct {
	keys []workspace.Key
}

func (q *refetchQueue) push(k workspace.Key) {
	for _, have := range q.keys {
		if have == k {
			return
		}
	}
	q.keys = append(q.keys, k)
}

type appModel struct {
	ctx     context.Context
	records Records
	ws      *workspace.Workspace
	confirm *workspace.ConfirmFlow
	log     *slog.Logger

	width  int
	height int

	view       view
	pane       pane
	projectID  string
	openOnLoad string
	// autoSelect selects the first task once the first task list of a project arrives.
	autoSelect bool

	projectsList list.Model
	tasksList    list.Model
	commentsList list.Model
	tasksActive  *bool
	commentsAct  *bool

	projectNames map[string]string
	unsubs       []func()
	refetch      *refetchQueue

	modal        modalKind
	modalErr     string
	titleInput   textinput.Model
	bodyInput    textarea.Model
	editFocus    int
	editTarget   workspace.SelectedItem
	newForTaskID string
	confirmFocus confirmModalFocus

	flash    *flashLine
	flashFor time.Duration
}

func newAppModel(ctx context.Context, opts Options) appModel {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	flash := &flashLine{}
	refetch := &refetchQueue{}

	ws := workspace.New(workspace.Options{
		Tasks:    opts.Store,
		Comments: opts.Store,
		Identity: opts.Identity,
		Logger:   log,
		Gateway:  workspace.Gateway{Timeout: 15 * time.Second},
		Notifier: workspace.NotifierFunc(func(msg string, level workspace.Level) {
			flash.text = msg
			flash.level = level
			flash.seq++
			flash.set = true
		}),
	})

	m := appModel{
		ctx:          ctx,
		records:      opts.Store,
		ws:           ws,
		confirm:      ws.NewConfirmFlow(),
		log:          log,
		view:         viewProjects,
		openOnLoad:   opts.ProjectID,
		tasksActive:  new(bool),
		commentsAct:  new(bool),
		projectNames: map[string]string{},
		refetch:      refetch,
		flash:        flash,
		flashFor:     3 * time.Second,
	}
	*m.tasksActive = true

	m.projectsList = newPanelList("Projects", nil)
	m.tasksList = newPanelList("Tasks", m.tasksActive)
	m.commentsList = newPanelList("Comments", m.commentsAct)

	m.titleInput = textinput.New()
	m.titleInput.Placeholder = "Title"
	m.titleInput.CharLimit = 200
	m.titleInput.Width = 40

	m.bodyInput = textarea.New()
	m.bodyInput.Placeholder = "Write…"
	m.bodyInput.CharLimit = 0
	m.bodyInput.SetWidth(60)
	m.bodyInput.SetHeight(8)
	m.bodyInput.ShowLineNumbers = false
	return m
}

func (m appModel) Init() tea.Cmd {
	return m.loadProjects()
}

func (m appModel) loadProjects() tea.Cmd {
	ctx, records := m.ctx, m.records
	return func() tea.Msg {
		projects, err := records.ListProjects(ctx, false)
		if err != nil {
			return projectsLoadedMsg{err: err}
		}
		items := make([]projectItem, 0, len(projects))
		for _, p := range projects {
			items = append(items, projectItem{id: p.ID, name: p.Name, note: p.Description})
		}
		return projectsLoadedMsg{items: items}
	}
}

// openProject switches the session to projectID. Panels of the previous project
// unsubscribe; the new panels subscribe to their keys and fetch.
func (m *appModel) openProject(projectID string) tea.Cmd {
	m.unmount()
	m.projectID = projectID
	m.view = viewProject
	m.pane = paneTasks
	m.syncPaneFocus()
	m.autoSelect = true
	m.ws.SetProject(projectID)
	m.confirm.Sync()
	m.tasksList.SetItems(nil)
	m.commentsList.SetItems(nil)

	refetch := m.refetch
	for _, key := range []workspace.Key{workspace.TaskKey(projectID), workspace.CommentKey(projectID)} {
		m.unsubs = append(m.unsubs, m.ws.Cache.Subscribe(key, refetch.push))
	}
	return tea.Batch(
		m.ws.Fetch(m.ctx, workspace.TaskKey(projectID)),
		m.ws.Fetch(m.ctx, workspace.CommentKey(projectID)),
	)
}

func (m *appModel) unmount() {
	for _, un := range m.unsubs {
		un()
	}
	m.unsubs = nil
}

func (m *appModel) syncPaneFocus() {
	*m.tasksActive = m.pane == paneTasks
	*m.commentsAct = m.pane == paneComments
}
