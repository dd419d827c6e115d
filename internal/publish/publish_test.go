package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"planboard/internal/model"
)

func testSnapshot() Snapshot {
	now := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	desc := "Some **markdown**."
	taskID := "task-abc123"
	return Snapshot{
		Project: model.Project{ID: "prj-1", Name: "Website", Description: "Relaunch", CreatedBy: "usr-ada", CreatedAt: now},
		Tasks: []model.Task{{
			ID:          taskID,
			ProjectID:   "prj-1",
			Title:       "Hello | world",
			Description: &desc,
			Status:      model.TaskInProgress,
			CreatedBy:   "usr-ada",
			CreatedAt:   now,
			UpdatedAt:   now,
		}},
		Comments: []model.Comment{
			{ID: "cmt-1", ProjectID: "prj-1", TaskID: &taskID, AuthorID: "usr-ada", Content: "On the task", CreatedAt: now.Add(time.Hour), UpdatedAt: now.Add(2 * time.Hour)},
			{ID: "cmt-2", ProjectID: "prj-1", AuthorID: "usr-bob", Content: "General note", CreatedAt: now, UpdatedAt: now},
		},
		Briefings: []model.Briefing{
			{ID: "brf-1", ProjectID: "prj-1", Title: "Kickoff", Content: "Goals", AuthorID: "usr-ada", CreatedAt: now},
		},
	}
}

func TestRenderTaskMarkdown_IncludesDescriptionAndComments(t *testing.T) {
	t.Parallel()

	md, err := RenderTaskMarkdown(testSnapshot(), "task-abc123")
	if err != nil {
		t.Fatalf("RenderTaskMarkdown: %v", err)
	}
	for _, want := range []string{
		"# Hello | world",
		"- Status: In progress",
		"## Description",
		"Some **markdown**.",
		"## Comments",
		"On the task",
		"- Edited: 2025-12-20T02:00:00Z",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "General note") {
		t.Fatalf("project-level comment leaked into task page:\n%s", md)
	}

	if _, err := RenderTaskMarkdown(testSnapshot(), "task-missing"); err == nil {
		t.Fatalf("expected error for unknown task")
	}
}

func TestRenderProjectMarkdown(t *testing.T) {
	t.Parallel()

	md := RenderProjectMarkdown(testSnapshot())
	for _, want := range []string{
		"# Website (prj-1)",
		"Relaunch",
		`| In progress | [Hello \| world](tasks/task-abc123.md) | task-abc123 |`,
		"### Kickoff",
		"## Project comments",
		"General note",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
}

func TestWriteProject_RespectsOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res, err := WriteProject(testSnapshot(), dir, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteProject: %v", err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("expected index + 1 task page, got %v", res.Written)
	}
	if _, err := os.Stat(filepath.Join(dir, "projects", "prj-1", "tasks", "task-abc123.md")); err != nil {
		t.Fatalf("expected task page: %v", err)
	}

	if _, err := WriteProject(testSnapshot(), dir, WriteOptions{}); err == nil {
		t.Fatalf("expected error when files exist without overwrite")
	}
	if _, err := WriteProject(testSnapshot(), dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("WriteProject overwrite: %v", err)
	}
}
