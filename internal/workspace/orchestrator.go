package workspace

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// orchestrator runs one (resource, op) mutation lifecycle and owns its pending set.
type orchestrator struct {
	ws       *Workspace
	resource ResourceType
	op       MutationKind
	pending  pendingSet
}

func newOrchestrator(ws *Workspace, resource ResourceType, op MutationKind) *orchestrator {
	return &orchestrator{ws: ws, resource: resource, op: op}
}

// applied is what a successful store call hands back to settle.
type applied struct {
	entityID string
	patch    Patch
	message  string
}

type settledMsg struct {
	orch      *orchestrator
	pending   PendingMutation
	projectID string
	res       Result[applied]
}

// start registers a PendingMutation for entityID and returns the command that performs
// call. The acting user is resolved inside the command and forwarded for attribution.
func (o *orchestrator) start(ctx context.Context, entityID, projectID string, call func(ctx context.Context, actorID string) (applied, error)) (tea.Cmd, error) {
	pm, err := o.pending.begin(entityID, o.op, o.ws.now())
	if err != nil {
		o.ws.log.Debug("mutation rejected", "op", o.op, "resource", o.resource, "entity", entityID, "reason", AlreadyPending)
		return nil, err
	}
	o.ws.log.Debug("mutation begin",
		"op", o.op, "resource", o.resource, "entity", entityID, "project", projectID, "token", pm.Token.String())

	ws := o.ws
	return func() tea.Msg {
		res := Execute(ctx, ws.gateway, func(ctx context.Context) (applied, error) {
			actorID, err := ws.identity.CurrentUserID(ctx)
			if err != nil {
				return applied{}, err
			}
			return call(ctx, actorID)
		})
		return settledMsg{orch: o, pending: pm, projectID: projectID, res: res}
	}, nil
}

func (o *orchestrator) busy(entityID string) bool {
	_, ok := o.pending.get(entityID)
	return ok
}

// settle applies a finished call on the loop: selection first, then the cache key, then
// the notification. A failure changes neither selection nor cache.
func (o *orchestrator) settle(msg settledMsg) Outcome {
	defer o.pending.end(msg.pending)

	ws := o.ws
	res := msg.res
	out := Outcome{
		Op:        o.op,
		Resource:  o.resource,
		EntityID:  msg.pending.EntityID,
		ProjectID: msg.projectID,
	}
	log := ws.log.With("op", o.op, "resource", o.resource, "entity", out.EntityID,
		"project", out.ProjectID, "token", msg.pending.Token.String())

	goneOnDelete := o.op == OpDelete && !res.OK && res.Reason == NotFound
	if !res.OK && !goneOnDelete {
		out.Reason = res.Reason
		out.Err = res.Err
		out.Message = fmt.Sprintf("Could not %s %s: %v", o.verb(), o.resource, res.Err)
		out.Level = LevelError
		log.Warn("mutation failed", "reason", res.Reason, "err", res.Err)
		ws.notifier.Notify(out.Message, out.Level)
		return out
	}

	out.OK = true
	switch o.op {
	case OpCreate:
		out.EntityID = res.Value.entityID
	case OpEdit, OpStatusToggle:
		out.Patched = ws.Selection.Patch(res.Value.patch)
		if !out.Patched && !ws.Selection.Empty() {
			out.Reason = IdentityMismatch
		}
	case OpDelete:
		if ws.Selection.Holds(o.resource, out.EntityID) {
			out.Cleared = ws.Selection.Clear()
		}
		if goneOnDelete {
			out.AlreadyRemoved = true
			out.Reason = NotFound
			out.Err = res.Err
		}
	}

	ws.Cache.Invalidate(Key{Resource: o.resource, ProjectID: msg.projectID})
	out.Invalidated = true

	if out.AlreadyRemoved {
		out.Message = title(string(o.resource)) + " was already removed"
		out.Level = LevelInfo
	} else {
		out.Message = res.Value.message
		out.Level = LevelSuccess
	}
	log.Debug("mutation settled", "reason", out.Reason, "patched", out.Patched, "cleared", out.Cleared)
	ws.notifier.Notify(out.Message, out.Level)
	return out
}

func (o *orchestrator) verb() string {
	switch o.op {
	case OpCreate:
		return "create"
	case OpEdit:
		return "update"
	case OpStatusToggle:
		return "change status of"
	case OpDelete:
		return "delete"
	default:
		return string(o.op)
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func newEntityKey(projectID string) string { return "new:" + projectID }
