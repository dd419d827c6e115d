package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"planboard/internal/identity"
	"planboard/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type TaskRecords interface {
	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)
	CreateTask(ctx context.Context, actorID string, in model.NewTask) (model.Task, error)
	UpdateTask(ctx context.Context, actorID, id string, ch model.TaskChanges) (model.Task, error)
	DeleteTask(ctx context.Context, actorID, id string) (string, error)
}

type CommentRecords interface {
	ListComments(ctx context.Context, projectID string) ([]model.Comment, error)
	CreateComment(ctx context.Context, actorID string, in model.NewComment) (model.Comment, error)
	UpdateComment(ctx context.Context, actorID, id string, ch model.CommentChanges) (model.Comment, error)
	DeleteComment(ctx context.Context, actorID, id string) (string, error)
}

type Options struct {
	Tasks    TaskRecords
	Comments CommentRecords
	Identity identity.Provider
	Notifier Notifier
	Gateway  Gateway

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
	Now    func() time.Time
}

// Workspace is one session's selection, cache and orchestrators. See the package doc for
// the threading contract.
type Workspace struct {
	Selection *Selection
	Cache     *Cache
	Tasks     *TaskActions
	Comments  *CommentActions

	tasks    TaskRecords
	comments CommentRecords
	identity identity.Provider
	notifier Notifier
	gateway  Gateway
	log      *slog.Logger
	now      func() time.Time
}

func New(opts Options) *Workspace {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = discardNotifier{}
	}
	idp := opts.Identity
	if idp == nil {
		idp = identity.Static("")
	}

	w := &Workspace{
		Selection: NewSelection(log),
		Cache:     NewCache(),
		tasks:     opts.Tasks,
		comments:  opts.Comments,
		identity:  idp,
		notifier:  notifier,
		gateway:   opts.Gateway,
		log:       log,
		now:       now,
	}
	w.Cache.now = now
	w.Tasks = newTaskActions(w)
	w.Comments = newCommentActions(w)
	return w
}

// Outcome describes what applying one message did.
type Outcome struct {
	Op        MutationKind
	Resource  ResourceType
	EntityID  string
	ProjectID string

	OK bool
	// Reason is the failure kind. On success it is NotFound for a delete of an entity that
	// was already gone, IdentityMismatch when the selection moved on before an edit
	// landed, and empty otherwise.
	Reason ErrorKind
	Err    error

	Patched        bool
	Cleared        bool
	Invalidated    bool
	AlreadyRemoved bool
	// Superseded marks a fetch result dropped because its key was invalidated after the
	// fetch started.
	Superseded bool

	Message string
	Level   Level
}

// CollectionLoadedMsg carries the result of Fetch.
type CollectionLoadedMsg struct {
	Key   Key
	Items Collection
	Err   error
	// Gen is the cache generation of Key when the fetch started.
	Gen uint64
}

// Fetch loads the collection for key through the record store. The returned command does
// not touch workspace state; Update applies its message.
func (w *Workspace) Fetch(ctx context.Context, key Key) tea.Cmd {
	gen := w.Cache.Generation(key)
	return func() tea.Msg {
		res := Execute(ctx, w.gateway, func(ctx context.Context) (Collection, error) {
			switch key.Resource {
			case ResourceTasks:
				if w.tasks == nil {
					return nil, fmt.Errorf("no task records configured")
				}
				l, err := w.tasks.ListTasks(ctx, key.ProjectID)
				return TaskList(l), err
			case ResourceComments:
				if w.comments == nil {
					return nil, fmt.Errorf("no comment records configured")
				}
				l, err := w.comments.ListComments(ctx, key.ProjectID)
				return CommentList(l), err
			default:
				return nil, fmt.Errorf("unknown resource %q", key.Resource)
			}
		})
		if !res.OK {
			return CollectionLoadedMsg{Key: key, Err: res.Err, Gen: gen}
		}
		return CollectionLoadedMsg{Key: key, Items: res.Value, Gen: gen}
	}
}

// Update applies workspace messages. It reports false for messages it does not own.
func (w *Workspace) Update(msg tea.Msg) (Outcome, bool) {
	switch msg := msg.(type) {
	case settledMsg:
		return msg.orch.settle(msg), true
	case CollectionLoadedMsg:
		return w.loaded(msg), true
	default:
		return Outcome{}, false
	}
}

// Run executes cmd inline and applies its message. The CLI uses it to drive the same
// lifecycle the TUI runs asynchronously.
func (w *Workspace) Run(cmd tea.Cmd) (Outcome, bool) {
	if cmd == nil {
		return Outcome{}, false
	}
	return w.Update(cmd())
}

func (w *Workspace) loaded(msg CollectionLoadedMsg) Outcome {
	out := Outcome{Op: OpFetch, Resource: msg.Key.Resource, ProjectID: msg.Key.ProjectID}
	if cur := w.Cache.Generation(msg.Key); msg.Gen < cur {
		// Overtaken by an invalidation; the refetch it triggered is authoritative.
		out.Superseded = true
		w.log.Debug("stale fetch result dropped", "key", msg.Key.String(), "gen", msg.Gen, "current", cur)
		return out
	}
	if msg.Err != nil {
		out.Reason = Classify(msg.Err)
		out.Err = msg.Err
		out.Message = fmt.Sprintf("Could not load %ss: %v", msg.Key.Resource, msg.Err)
		out.Level = LevelError
		w.log.Warn("collection fetch failed", "key", msg.Key.String(), "err", msg.Err)
		w.notifier.Notify(out.Message, out.Level)
		return out
	}
	w.Cache.WriteAt(msg.Key, msg.Gen, msg.Items)
	out.OK = true
	out.Cleared = w.Selection.Reconcile(msg.Key, msg.Items)
	return out
}

// SetProject switches the session's project; a selection from another project is cleared.
func (w *Workspace) SetProject(projectID string) bool {
	return w.Selection.SetProject(projectID)
}

// DeleteItem starts the delete orchestrator matching item's kind.
func (w *Workspace) DeleteItem(ctx context.Context, item SelectedItem) (tea.Cmd, error) {
	switch it := item.(type) {
	case TaskDetail:
		return w.Tasks.Delete(ctx, it)
	case CommentDetail:
		return w.Comments.Delete(ctx, it)
	case nil:
		return nil, ErrNoSelection
	default:
		return nil, fmt.Errorf("unsupported selection %T", item)
	}
}
