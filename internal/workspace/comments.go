package workspace

import (
	"context"
	"errors"

	"planboard/internal/model"
	"planboard/internal/validate"

	tea "github.com/charmbracelet/bubbletea"
)

// CommentActions are the comment orchestrators; see TaskActions.
type CommentActions struct {
	ws     *Workspace
	create *orchestrator
	edit   *orchestrator
	delete *orchestrator
}

func newCommentActions(ws *Workspace) *CommentActions {
	return &CommentActions{
		ws:     ws,
		create: newOrchestrator(ws, ResourceComments, OpCreate),
		edit:   newOrchestrator(ws, ResourceComments, OpEdit),
		delete: newOrchestrator(ws, ResourceComments, OpDelete),
	}
}

var errNoCommentRecords = errors.New("workspace: no comment records configured")

func (a *CommentActions) Create(ctx context.Context, in model.NewComment) (tea.Cmd, error) {
	if err := validate.NewComment(in).Err(); err != nil {
		return nil, err
	}
	if a.ws.comments == nil {
		return nil, errNoCommentRecords
	}
	return a.create.start(ctx, newEntityKey(in.ProjectID), in.ProjectID, func(ctx context.Context, actorID string) (applied, error) {
		c, err := a.ws.comments.CreateComment(ctx, actorID, in)
		if err != nil {
			return applied{}, err
		}
		return applied{entityID: c.ID, message: "Comment added"}, nil
	})
}

func (a *CommentActions) Edit(ctx context.Context, comment CommentDetail, ch model.CommentChanges) (tea.Cmd, error) {
	if err := validate.CommentChanges(ch).Err(); err != nil {
		return nil, err
	}
	if a.ws.comments == nil {
		return nil, errNoCommentRecords
	}
	return a.edit.start(ctx, comment.ID, comment.ProjectID, func(ctx context.Context, actorID string) (applied, error) {
		c, err := a.ws.comments.UpdateComment(ctx, actorID, comment.ID, ch)
		if err != nil {
			return applied{}, err
		}
		return applied{entityID: c.ID, patch: CommentPatchFrom(c), message: "Comment updated"}, nil
	})
}

func (a *CommentActions) Delete(ctx context.Context, comment CommentDetail) (tea.Cmd, error) {
	if a.ws.comments == nil {
		return nil, errNoCommentRecords
	}
	return a.delete.start(ctx, comment.ID, comment.ProjectID, func(ctx context.Context, actorID string) (applied, error) {
		if _, err := a.ws.comments.DeleteComment(ctx, actorID, comment.ID); err != nil {
			return applied{}, err
		}
		return applied{entityID: comment.ID, message: "Comment deleted"}, nil
	})
}

func (a *CommentActions) Pending(id string) bool {
	return a.edit.busy(id) || a.delete.busy(id)
}

func (a *CommentActions) Creating(projectID string) bool {
	return a.create.busy(newEntityKey(projectID))
}
