// Package validate holds the field rules for the create/edit forms. It runs before a
// payload reaches the record store; the workspace core assumes validated input.
package validate

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"

	"planboard/internal/model"
)

const (
	MaxTitleLen   = 200
	MaxNameLen    = 120
	MaxContentLen = 10000
)

// FieldErrors maps a form field to its first failing rule.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Err returns nil when there are no field errors so callers can `return validate.X(...).Err()`.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func (fe FieldErrors) required(field, v string) bool {
	if strings.TrimSpace(v) == "" {
		fe[field] = "required"
		return false
	}
	return true
}

func (fe FieldErrors) maxLen(field, v string, n int) {
	if _, ok := fe[field]; ok {
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(v)) > n {
		fe[field] = fmt.Sprintf("must be at most %d characters", n)
	}
}

func (fe FieldErrors) email(field, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if _, err := mail.ParseAddress(v); err != nil {
		fe[field] = "must be a valid email address"
	}
}

func User(name, email string) FieldErrors {
	fe := FieldErrors{}
	if fe.required("name", name) {
		fe.maxLen("name", name, MaxNameLen)
	}
	fe.email("email", email)
	return fe
}

func Client(name, email string) FieldErrors {
	return User(name, email)
}

func Project(in model.NewProject) FieldErrors {
	fe := FieldErrors{}
	if fe.required("name", in.Name) {
		fe.maxLen("name", in.Name, MaxNameLen)
	}
	fe.maxLen("description", in.Description, MaxContentLen)
	return fe
}

func NewTask(in model.NewTask) FieldErrors {
	fe := FieldErrors{}
	fe.required("projectId", in.ProjectID)
	if fe.required("title", in.Title) {
		fe.maxLen("title", in.Title, MaxTitleLen)
	}
	if in.Description != nil {
		fe.maxLen("description", *in.Description, MaxContentLen)
	}
	if in.Status != "" && !in.Status.Valid() {
		fe["status"] = "must be one of pending, in_progress, completed"
	}
	return fe
}

func TaskChanges(ch model.TaskChanges) FieldErrors {
	fe := FieldErrors{}
	if ch.Empty() {
		fe["task"] = "nothing to change"
		return fe
	}
	if ch.Title != nil && fe.required("title", *ch.Title) {
		fe.maxLen("title", *ch.Title, MaxTitleLen)
	}
	if ch.Description != nil {
		if ch.ClearDescription {
			fe["description"] = "cannot set and clear at the same time"
		} else {
			fe.maxLen("description", *ch.Description, MaxContentLen)
		}
	}
	if ch.Status != nil && !ch.Status.Valid() {
		fe["status"] = "must be one of pending, in_progress, completed"
	}
	return fe
}

func NewComment(in model.NewComment) FieldErrors {
	fe := FieldErrors{}
	fe.required("projectId", in.ProjectID)
	if fe.required("content", in.Content) {
		fe.maxLen("content", in.Content, MaxContentLen)
	}
	return fe
}

func CommentChanges(ch model.CommentChanges) FieldErrors {
	fe := FieldErrors{}
	if ch.Content == nil {
		fe["content"] = "required"
		return fe
	}
	if fe.required("content", *ch.Content) {
		fe.maxLen("content", *ch.Content, MaxContentLen)
	}
	return fe
}

func NewBriefing(in model.NewBriefing) FieldErrors {
	fe := FieldErrors{}
	fe.required("projectId", in.ProjectID)
	if fe.required("title", in.Title) {
		fe.maxLen("title", in.Title, MaxTitleLen)
	}
	if fe.required("content", in.Content) {
		fe.maxLen("content", in.Content, MaxContentLen)
	}
	return fe
}
