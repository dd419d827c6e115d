// Package identity resolves the acting user. The workspace core only forwards the id
// for attribution; the record store decides whether it is allowed to act.
package identity

import (
	"context"
	"errors"
	"strings"
)

var ErrUnauthenticated = errors.New("no current user; run `planboard users create --name ... --use` or `planboard users use <user-id>` (or pass --actor)")

type Provider interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// Static always returns the same id (empty means unauthenticated).
type Static string

func (s Static) CurrentUserID(context.Context) (string, error) {
	id := strings.TrimSpace(string(s))
	if id == "" {
		return "", ErrUnauthenticated
	}
	return id, nil
}

// Chain returns the first non-empty id among explicit flag, environment and config,
// in that order of precedence.
type Chain struct {
	Flag   string
	Env    string
	Config string
}

func (c Chain) CurrentUserID(ctx context.Context) (string, error) {
	for _, v := range []string{c.Flag, c.Env, c.Config} {
		if id := strings.TrimSpace(v); id != "" {
			return id, nil
		}
	}
	return "", ErrUnauthenticated
}
