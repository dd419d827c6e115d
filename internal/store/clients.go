package store

import (
	"context"
	"database/sql"
	"strings"

	"planboard/internal/model"
)

func (s *Store) CreateClient(ctx context.Context, actorID, name, email string) (model.Client, error) {
	id, err := newRandomID(prefixClient)
	if err != nil {
		return model.Client{}, err
	}
	c := model.Client{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		CreatedBy: strings.TrimSpace(actorID),
		CreatedAt: fromUnixMs(s.nowMs()),
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, actorID, "create clients"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO clients(id, name, email, created_by, created_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Email, c.CreatedBy, c.CreatedAt.UnixMilli())
		return classifyWriteErr("client", err)
	})
	if err != nil {
		return model.Client{}, err
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, created_by, created_at_unixms FROM clients ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Client, 0)
	for rows.Next() {
		var c model.Client
		var created int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedBy, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = fromUnixMs(created)
		out = append(out, c)
	}
	return out, rows.Err()
}
