// Package publish exports a project as a tree of markdown files: an index page plus one
// page per task with its comments.
package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"planboard/internal/model"
)

// Reader is the slice of the record store an export needs.
type Reader interface {
	GetProject(ctx context.Context, id string) (model.Project, error)
	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)
	ListComments(ctx context.Context, projectID string) ([]model.Comment, error)
	ListBriefings(ctx context.Context, projectID string) ([]model.Briefing, error)
}

// Snapshot is everything rendered for one project, in list order.
type Snapshot struct {
	Project   model.Project
	Tasks     []model.Task
	Comments  []model.Comment
	Briefings []model.Briefing
}

func Load(ctx context.Context, r Reader, projectID string) (Snapshot, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return Snapshot{}, errors.New("missing project id")
	}
	p, err := r.GetProject(ctx, projectID)
	if err != nil {
		return Snapshot{}, err
	}
	s := Snapshot{Project: p}
	if s.Tasks, err = r.ListTasks(ctx, projectID); err != nil {
		return Snapshot{}, err
	}
	if s.Comments, err = r.ListComments(ctx, projectID); err != nil {
		return Snapshot{}, err
	}
	if s.Briefings, err = r.ListBriefings(ctx, projectID); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func (s Snapshot) task(id string) (model.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// commentsFor returns the comments on taskID; an empty id selects project-level comments.
func (s Snapshot) commentsFor(taskID string) []model.Comment {
	var out []model.Comment
	for _, c := range s.Comments {
		cur := ""
		if c.TaskID != nil {
			cur = *c.TaskID
		}
		if cur == taskID {
			out = append(out, c)
		}
	}
	return out
}

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteProject writes <toDir>/projects/<id>/index.md and one tasks/<taskID>.md per task.
func WriteProject(s Snapshot, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	projectDir := filepath.Join(toDir, "projects", s.Project.ID)
	tasksDir := filepath.Join(projectDir, "tasks")
	if err := os.MkdirAll(tasksDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(projectDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderProjectMarkdown(s)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on the first failing page; earlier pages stay written.
	written := []string{indexPath}
	for _, t := range s.Tasks {
		md, err := RenderTaskMarkdown(s, t.ID)
		if err != nil {
			return WriteResult{}, err
		}
		p := filepath.Join(tasksDir, t.ID+".md")
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
