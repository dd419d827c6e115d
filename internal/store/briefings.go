package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"planboard/internal/model"
)

const briefingColumns = `id, project_id, title, content, author_id, created_at_unixms, updated_at_unixms`

func (s *Store) CreateBriefing(ctx context.Context, actorID string, in model.NewBriefing) (model.Briefing, error) {
	id, err := newRandomID(prefixBriefing)
	if err != nil {
		return model.Briefing{}, err
	}
	now := fromUnixMs(s.nowMs())
	b := model.Briefing{
		ID:        id,
		ProjectID: strings.TrimSpace(in.ProjectID),
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		AuthorID:  strings.TrimSpace(actorID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, actorID, "write briefings"); err != nil {
			return err
		}
		ok, err := projectExists(ctx, tx, b.ProjectID)
		if err != nil {
			return err
		}
		if !ok {
			return NotFoundError{Kind: "project", ID: b.ProjectID}
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO briefings(`+briefingColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.ProjectID, b.Title, b.Content, b.AuthorID, b.CreatedAt.UnixMilli(), b.UpdatedAt.UnixMilli())
		return classifyWriteErr("briefing", err)
	})
	if err != nil {
		return model.Briefing{}, err
	}
	return b, nil
}

func (s *Store) GetBriefing(ctx context.Context, id string) (model.Briefing, error) {
	id = strings.TrimSpace(id)
	b, err := scanBriefing(s.db.QueryRowContext(ctx, `SELECT `+briefingColumns+` FROM briefings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Briefing{}, NotFoundError{Kind: "briefing", ID: id}
	}
	return b, err
}

func (s *Store) ListBriefings(ctx context.Context, projectID string) ([]model.Briefing, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+briefingColumns+` FROM briefings WHERE project_id = ? ORDER BY created_at_unixms DESC, id`, strings.TrimSpace(projectID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Briefing, 0)
	for rows.Next() {
		b, err := scanBriefing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBriefing(r rowScanner) (model.Briefing, error) {
	var b model.Briefing
	var created, updated int64
	if err := r.Scan(&b.ID, &b.ProjectID, &b.Title, &b.Content, &b.AuthorID, &created, &updated); err != nil {
		return model.Briefing{}, err
	}
	b.CreatedAt = fromUnixMs(created)
	b.UpdatedAt = fromUnixMs(updated)
	return b, nil
}
