package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"planboard/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, name, email string) (model.User, error) {
	id, err := newRandomID(prefixUser)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		CreatedAt: fromUnixMs(s.nowMs()),
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users(id, name, email, created_at_unixms) VALUES(?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.CreatedAt.UnixMilli())
	if err != nil {
		return model.User{}, classifyWriteErr("user", err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	var u model.User
	var created int64
	err := s.db.QueryRowContext(ctx, `SELECT id, name, email, created_at_unixms FROM users WHERE id = ?`, strings.TrimSpace(id)).
		Scan(&u.ID, &u.Name, &u.Email, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, NotFoundError{Kind: "user", ID: id}
	}
	if err != nil {
		return model.User{}, err
	}
	u.CreatedAt = fromUnixMs(created)
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, created_at_unixms FROM users ORDER BY created_at_unixms, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		var created int64
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &created); err != nil {
			return nil, err
		}
		u.CreatedAt = fromUnixMs(created)
		out = append(out, u)
	}
	return out, rows.Err()
}
