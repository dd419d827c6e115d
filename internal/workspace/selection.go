package workspace

import (
	"log/slog"
	"time"

	"planboard/internal/model"
)

// SelectedItem is either a TaskDetail or a CommentDetail. Consumers switch over both
// cases; the unexported marker keeps other types out.
type SelectedItem interface {
	EntityID() string
	// Key is the cache key of the collection the entity was fetched from.
	Key() Key
	isSelectedItem()
}

type TaskDetail struct {
	ID          string           `json:"id"`
	ProjectID   string           `json:"projectId"`
	Title       string           `json:"title"`
	Status      model.TaskStatus `json:"status"`
	Description *string          `json:"description"`
}

func (t TaskDetail) EntityID() string { return t.ID }
func (t TaskDetail) Key() Key         { return TaskKey(t.ProjectID) }
func (TaskDetail) isSelectedItem()    {}

func TaskDetailFrom(t model.Task) TaskDetail {
	var desc *string
	if t.Description != nil {
		d := *t.Description
		desc = &d
	}
	return TaskDetail{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Status:      t.Status,
		Description: desc,
	}
}

type CommentDetail struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	AuthorID  string    `json:"authorId"`
}

func (c CommentDetail) EntityID() string { return c.ID }
func (c CommentDetail) Key() Key         { return CommentKey(c.ProjectID) }
func (CommentDetail) isSelectedItem()    {}

func CommentDetailFrom(c model.Comment) CommentDetail {
	return CommentDetail{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		AuthorID:  c.AuthorID,
	}
}

// Patch is a shallow update for the current selection. It applies only when both kind and
// id match what is selected.
type Patch interface {
	target() (ResourceType, string)
	isPatch()
}

type TaskPatch struct {
	ID               string
	Title            *string
	Status           *model.TaskStatus
	Description      *string
	ClearDescription bool
}

func (p TaskPatch) target() (ResourceType, string) { return ResourceTasks, p.ID }
func (TaskPatch) isPatch()                          {}

// TaskPatchFrom carries every editable field of a stored task.
func TaskPatchFrom(t model.Task) TaskPatch {
	title := t.Title
	status := t.Status
	p := TaskPatch{ID: t.ID, Title: &title, Status: &status}
	if t.Description == nil {
		p.ClearDescription = true
	} else {
		d := *t.Description
		p.Description = &d
	}
	return p
}

type CommentPatch struct {
	ID        string
	Content   *string
	UpdatedAt *time.Time
}

func (p CommentPatch) target() (ResourceType, string) { return ResourceComments, p.ID }
func (CommentPatch) isPatch()                          {}

func CommentPatchFrom(c model.Comment) CommentPatch {
	content := c.Content
	updated := c.UpdatedAt
	return CommentPatch{ID: c.ID, Content: &content, UpdatedAt: &updated}
}

func resourceOf(item SelectedItem) ResourceType {
	switch item.(type) {
	case TaskDetail:
		return ResourceTasks
	case CommentDetail:
		return ResourceComments
	default:
		return ""
	}
}

// Selection holds at most one SelectedItem. The zero value is not usable; use NewSelection.
type Selection struct {
	item SelectedItem
	gen  uint64
	log  *slog.Logger
}

func NewSelection(log *slog.Logger) *Selection {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Selection{log: log}
}

func (s *Selection) Current() (SelectedItem, bool) {
	return s.item, s.item != nil
}

func (s *Selection) Empty() bool { return s.item == nil }

// Generation changes on every Select and on every Clear that empties the store. Patches
// and reconciles keep it.
func (s *Selection) Generation() uint64 { return s.gen }

// Holds reports whether the selection is the given entity.
func (s *Selection) Holds(resource ResourceType, id string) bool {
	return s.item != nil && resourceOf(s.item) == resource && s.item.EntityID() == id
}

// Select replaces any previous selection. A nil item clears.
func (s *Selection) Select(item SelectedItem) {
	if item == nil {
		s.Clear()
		return
	}
	s.item = item
	s.gen++
}

// Clear empties the store. Reports whether anything changed; clearing an empty store is a
// no-op.
func (s *Selection) Clear() bool {
	if s.item == nil {
		return false
	}
	s.item = nil
	s.gen++
	return true
}

// SetProject clears the selection when it belongs to another project.
func (s *Selection) SetProject(projectID string) bool {
	if s.item == nil || s.item.Key().ProjectID == projectID {
		return false
	}
	return s.Clear()
}

// Patch merges p into the selection when kind and id match. Any other case (empty store,
// different kind, different id) is a silent no-op, which lets a late result for an entity
// the user has moved away from arrive harmlessly.
func (s *Selection) Patch(p Patch) bool {
	p, ok := derefPatch(p)
	if !ok {
		return false
	}
	resource, id := p.target()
	if !s.Holds(resource, id) {
		if s.item != nil {
			s.log.Debug("selection patch skipped",
				"reason", IdentityMismatch,
				"patch", string(resource)+":"+id,
				"selected", string(resourceOf(s.item))+":"+s.item.EntityID(),
			)
		}
		return false
	}

	switch cur := s.item.(type) {
	case TaskDetail:
		tp, ok := p.(TaskPatch)
		if !ok {
			return false
		}
		if tp.Title != nil {
			cur.Title = *tp.Title
		}
		if tp.Status != nil {
			cur.Status = *tp.Status
		}
		if tp.ClearDescription {
			cur.Description = nil
		} else if tp.Description != nil {
			d := *tp.Description
			cur.Description = &d
		}
		s.item = cur
	case CommentDetail:
		cp, ok := p.(CommentPatch)
		if !ok {
			return false
		}
		if cp.Content != nil {
			cur.Content = *cp.Content
		}
		if cp.UpdatedAt != nil {
			cur.UpdatedAt = *cp.UpdatedAt
		}
		s.item = cur
	default:
		return false
	}
	return true
}

// derefPatch turns *TaskPatch and *CommentPatch, which also satisfy Patch, into their
// values. Nil patches are rejected.
func derefPatch(p Patch) (Patch, bool) {
	switch v := p.(type) {
	case nil:
		return nil, false
	case *TaskPatch:
		if v == nil {
			return nil, false
		}
		return *v, true
	case *CommentPatch:
		if v == nil {
			return nil, false
		}
		return *v, true
	}
	return p, true
}

// Reconcile brings the selection in line with a freshly fetched collection for key: a
// selected entity that is no longer present is dropped, one that is present takes the
// fetched field values. Reports whether the selection was cleared.
func (s *Selection) Reconcile(key Key, items Collection) bool {
	if s.item == nil || s.item.Key() != key {
		return false
	}
	var fresh SelectedItem
	ok := false
	if items != nil {
		fresh, ok = items.Detail(s.item.EntityID())
	}
	if !ok {
		s.log.Debug("selection dropped; entity missing from fetched collection",
			"key", key.String(), "id", s.item.EntityID())
		return s.Clear()
	}
	s.item = fresh
	return false
}
