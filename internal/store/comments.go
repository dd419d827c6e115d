package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"planboard/internal/model"
	"planboard/internal/perm"
)

const commentColumns = `id, project_id, task_id, author_id, content, created_at_unixms, updated_at_unixms`

// ListComments returns the project's comments, oldest first.
func (s *Store) ListComments(ctx context.Context, projectID string) ([]model.Comment, error) {
	ok, err := projectExists(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFoundError{Kind: "project", ID: projectID}
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE project_id = ? ORDER BY created_at_unixms, id`, strings.TrimSpace(projectID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetComment(ctx context.Context, id string) (model.Comment, error) {
	return getComment(ctx, s.db, id)
}

func (s *Store) CreateComment(ctx context.Context, actorID string, in model.NewComment) (model.Comment, error) {
	id, err := newRandomID(prefixComment)
	if err != nil {
		return model.Comment{}, err
	}
	now := fromUnixMs(s.nowMs())
	c := model.Comment{
		ID:        id,
		ProjectID: strings.TrimSpace(in.ProjectID),
		TaskID:    in.TaskID,
		AuthorID:  strings.TrimSpace(actorID),
		Content:   strings.TrimSpace(in.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, actorID, "comment"); err != nil {
			return err
		}
		ok, err := projectExists(ctx, tx, c.ProjectID)
		if err != nil {
			return err
		}
		if !ok {
			return NotFoundError{Kind: "project", ID: c.ProjectID}
		}
		if c.TaskID != nil {
			t, err := getTask(ctx, tx, *c.TaskID)
			if err != nil {
				return err
			}
			if t.ProjectID != c.ProjectID {
				return ConflictError{Kind: "comment", Detail: "task " + t.ID + " belongs to another project"}
			}
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO comments(`+commentColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.ProjectID, nullString(c.TaskID), c.AuthorID, c.Content, c.CreatedAt.UnixMilli(), c.UpdatedAt.UnixMilli())
		return classifyWriteErr("comment", err)
	})
	if err != nil {
		return model.Comment{}, err
	}
	return c, nil
}

func (s *Store) UpdateComment(ctx context.Context, actorID, id string, ch model.CommentChanges) (model.Comment, error) {
	var out model.Comment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, actorID, "edit comments"); err != nil {
			return err
		}
		c, err := getComment(ctx, tx, id)
		if err != nil {
			return err
		}
		if !perm.CanEditComment(actorID, c) {
			return UnauthorizedError{ActorID: actorID, Action: "edit comment " + c.ID}
		}
		if ch.Content == nil {
			out = c
			return nil
		}
		c.Content = strings.TrimSpace(*ch.Content)
		c.UpdatedAt = fromUnixMs(s.nowMs())
		if _, err := tx.ExecContext(ctx, `UPDATE comments SET content = ?, updated_at_unixms = ? WHERE id = ?`,
			c.Content, c.UpdatedAt.UnixMilli(), c.ID); err != nil {
			return classifyWriteErr("comment", err)
		}
		out = c
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}
	return out, nil
}

// DeleteComment removes the comment and returns the project it belonged to.
func (s *Store) DeleteComment(ctx context.Context, actorID, id string) (string, error) {
	var projectID string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, actorID, "delete comments"); err != nil {
			return err
		}
		c, err := getComment(ctx, tx, id)
		if err != nil {
			return err
		}
		p, err := scanProject(tx.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, c.ProjectID))
		if err != nil {
			return err
		}
		if !perm.CanDeleteComment(actorID, c, p) {
			return UnauthorizedError{ActorID: actorID, Action: "delete comment " + c.ID}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, c.ID); err != nil {
			return classifyWriteErr("comment", err)
		}
		projectID = c.ProjectID
		return nil
	})
	if err != nil {
		return "", err
	}
	return projectID, nil
}

func getComment(ctx context.Context, q queryRower, id string) (model.Comment, error) {
	id = strings.TrimSpace(id)
	c, err := scanComment(q.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comment{}, NotFoundError{Kind: "comment", ID: id}
	}
	return c, err
}

func scanComment(r rowScanner) (model.Comment, error) {
	var c model.Comment
	var taskID sql.NullString
	var created, updated int64
	if err := r.Scan(&c.ID, &c.ProjectID, &taskID, &c.AuthorID, &c.Content, &created, &updated); err != nil {
		return model.Comment{}, err
	}
	c.TaskID = stringPtr(taskID)
	c.CreatedAt = fromUnixMs(created)
	c.UpdatedAt = fromUnixMs(updated)
	return c, nil
}
