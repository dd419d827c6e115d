package workspace

import (
	"time"

	"github.com/google/uuid"
)

type MutationKind string

const (
	OpCreate       MutationKind = "create"
	OpEdit         MutationKind = "edit"
	OpDelete       MutationKind = "delete"
	OpStatusToggle MutationKind = "status_toggle"

	// OpFetch marks outcomes of collection loads; it never creates a PendingMutation.
	OpFetch MutationKind = "fetch"
)

// PendingMutation exists from the moment an orchestrator accepts a request until its
// result is applied.
type PendingMutation struct {
	EntityID    string
	Kind        MutationKind
	SubmittedAt time.Time
	// Token correlates the begin and settle log lines of one mutation.
	Token uuid.UUID
}

type pendingSet struct {
	byEntity map[string]PendingMutation
}

func (p *pendingSet) begin(entityID string, kind MutationKind, now time.Time) (PendingMutation, error) {
	if _, ok := p.byEntity[entityID]; ok {
		return PendingMutation{}, ErrAlreadyPending
	}
	if p.byEntity == nil {
		p.byEntity = map[string]PendingMutation{}
	}
	pm := PendingMutation{
		EntityID:    entityID,
		Kind:        kind,
		SubmittedAt: now,
		Token:       uuid.New(),
	}
	p.byEntity[entityID] = pm
	return pm, nil
}

// end removes pm, unless a newer mutation has replaced it.
func (p *pendingSet) end(pm PendingMutation) {
	if cur, ok := p.byEntity[pm.EntityID]; ok && cur.Token == pm.Token {
		delete(p.byEntity, pm.EntityID)
	}
}

func (p *pendingSet) get(entityID string) (PendingMutation, bool) {
	pm, ok := p.byEntity[entityID]
	return pm, ok
}

func (p *pendingSet) len() int { return len(p.byEntity) }
