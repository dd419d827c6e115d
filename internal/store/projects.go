package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"planboard/internal/model"
)

const projectColumns = `id, client_id, name, description, archived, created_by, created_at_unixms`

func (s *Store) CreateProject(ctx context.Context, actorID string, in model.NewProject) (model.Project, error) {
	id, err := newRandomID(prefixProject)
	if err != nil {
		return model.Project{}, err
	}
	p := model.Project{
		ID:          id,
		ClientID:    in.ClientID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   strings.TrimSpace(actorID),
		CreatedAt:   fromUnixMs(s.nowMs()),
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, actorID, "create projects"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO projects(`+projectColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			p.ID, nullString(p.ClientID), p.Name, p.Description, boolToInt(p.Archived), p.CreatedBy, p.CreatedAt.UnixMilli())
		return classifyWriteErr("project", err)
	})
	if err != nil {
		return model.Project{}, err
	}
	return p, nil
}

func (s *Store) GetProject(ctx context.Context, id string) (model.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, strings.TrimSpace(id))
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, NotFoundError{Kind: "project", ID: id}
	}
	return p, err
}

func (s *Store) ListProjects(ctx context.Context, includeArchived bool) ([]model.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects`
	if !includeArchived {
		q += ` WHERE archived = 0`
	}
	q += ` ORDER BY created_at_unixms, id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) SetProjectArchived(ctx context.Context, actorID, id string, archived bool) (model.Project, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, actorID, "archive projects"); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE projects SET archived = ? WHERE id = ?`, boolToInt(archived), strings.TrimSpace(id))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return NotFoundError{Kind: "project", ID: id}
		}
		return nil
	})
	if err != nil {
		return model.Project{}, err
	}
	return s.GetProject(ctx, id)
}

func projectExists(ctx context.Context, q queryRower, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, strings.TrimSpace(id)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(r rowScanner) (model.Project, error) {
	var p model.Project
	var clientID sql.NullString
	var archived int
	var created int64
	if err := r.Scan(&p.ID, &clientID, &p.Name, &p.Description, &archived, &p.CreatedBy, &created); err != nil {
		return model.Project{}, err
	}
	p.ClientID = stringPtr(clientID)
	p.Archived = archived != 0
	p.CreatedAt = fromUnixMs(created)
	return p, nil
}
