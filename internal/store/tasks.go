package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"planboard/internal/model"
)

const taskColumns = `id, project_id, title, description, status, created_by, updated_by, created_at_unixms, updated_at_unixms`

// ListTasks returns the project's tasks, oldest first.
func (s *Store) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	ok, err := projectExists(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFoundError{Kind: "project", ID: projectID}
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY created_at_unixms, id`, strings.TrimSpace(projectID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id string) (model.Task, error) {
	return getTask(ctx, s.db, id)
}

func (s *Store) CreateTask(ctx context.Context, actorID string, in model.NewTask) (model.Task, error) {
	id, err := newRandomID(prefixTask)
	if err != nil {
		return model.Task{}, err
	}
	status := in.Status
	if status == "" {
		status = model.TaskPending
	}
	now := fromUnixMs(s.nowMs())
	t := model.Task{
		ID:          id,
		ProjectID:   strings.TrimSpace(in.ProjectID),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      status,
		CreatedBy:   strings.TrimSpace(actorID),
		UpdatedBy:   strings.TrimSpace(actorID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, actorID, "create tasks"); err != nil {
			return err
		}
		ok, err := projectExists(ctx, tx, t.ProjectID)
		if err != nil {
			return err
		}
		if !ok {
			return NotFoundError{Kind: "project", ID: t.ProjectID}
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO tasks(`+taskColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.ProjectID, t.Title, nullString(t.Description), string(t.Status), t.CreatedBy, t.UpdatedBy,
			t.CreatedAt.UnixMilli(), t.UpdatedAt.UnixMilli())
		return classifyWriteErr("task", err)
	})
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// UpdateTask applies changes and returns the stored task. An empty change set is a no-op
// that still returns the current record.
func (s *Store) UpdateTask(ctx context.Context, actorID, id string, ch model.TaskChanges) (model.Task, error) {
	var out model.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, actorID, "edit tasks"); err != nil {
			return err
		}
		t, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if ch.Empty() {
			out = t
			return nil
		}
		if ch.Title != nil {
			t.Title = strings.TrimSpace(*ch.Title)
		}
		if ch.ClearDescription {
			t.Description = nil
		} else if ch.Description != nil {
			d := *ch.Description
			t.Description = &d
		}
		if ch.Status != nil {
			t.Status = *ch.Status
		}
		t.UpdatedBy = strings.TrimSpace(actorID)
		t.UpdatedAt = fromUnixMs(s.nowMs())

		_, err = tx.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, status = ?, updated_by = ?, updated_at_unixms = ? WHERE id = ?`,
			t.Title, nullString(t.Description), string(t.Status), t.UpdatedBy, t.UpdatedAt.UnixMilli(), t.ID)
		if err != nil {
			return classifyWriteErr("task", err)
		}
		out = t
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}
	return out, nil
}

// DeleteTask removes the task and returns the project it belonged to.
func (s *Store) DeleteTask(ctx context.Context, actorID, id string) (string, error) {
	var projectID string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, actorID, "delete tasks"); err != nil {
			return err
		}
		t, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, t.ID); err != nil {
			return classifyWriteErr("task", err)
		}
		projectID = t.ProjectID
		return nil
	})
	if err != nil {
		return "", err
	}
	return projectID, nil
}

func getTask(ctx context.Context, q queryRower, id string) (model.Task, error) {
	id = strings.TrimSpace(id)
	t, err := scanTask(q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, NotFoundError{Kind: "task", ID: id}
	}
	return t, err
}

func scanTask(r rowScanner) (model.Task, error) {
	var t model.Task
	var desc sql.NullString
	var status string
	var created, updated int64
	if err := r.Scan(&t.ID, &t.ProjectID, &t.Title, &desc, &status, &t.CreatedBy, &t.UpdatedBy, &created, &updated); err != nil {
		return model.Task{}, err
	}
	t.Description = stringPtr(desc)
	t.Status = model.TaskStatus(status)
	t.CreatedAt = fromUnixMs(created)
	t.UpdatedAt = fromUnixMs(updated)
	return t, nil
}
