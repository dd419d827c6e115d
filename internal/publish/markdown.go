package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"planboard/internal/model"
)

func RenderTaskMarkdown(s Snapshot, taskID string) (string, error) {
	task, ok := s.task(strings.TrimSpace(taskID))
	if !ok {
		return "", fmt.Errorf("task not found: %s", taskID)
	}

	var buf bytes.Buffer
	writeLn := func(line string) {
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(task.Title))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + task.ID)
	writeLn("- Project: " + strings.TrimSpace(s.Project.Name) + " (" + s.Project.ID + ")")
	writeLn("- Status: " + task.Status.Label())
	writeLn("- Created by: " + task.CreatedBy)
	if task.UpdatedBy != "" && task.UpdatedBy != task.CreatedBy {
		writeLn("- Updated by: " + task.UpdatedBy)
	}
	writeLn("- Created: " + stamp(task.CreatedAt))
	writeLn("- Updated: " + stamp(task.UpdatedAt))

	if task.Description != nil && strings.TrimSpace(*task.Description) != "" {
		writeLn("")
		writeLn("## Description")
		writeLn("")
		writeLn(strings.TrimSpace(*task.Description))
	}

	if comments := s.commentsFor(task.ID); len(comments) > 0 {
		writeLn("")
		writeLn("## Comments")
		writeLn("")
		writeComments(writeLn, comments)
	}
	return buf.String(), nil
}

// RenderProjectMarkdown renders the project index: description, task table, briefings and
// the comments not attached to any task.
func RenderProjectMarkdown(s Snapshot) string {
	var buf bytes.Buffer
	writeLn := func(line string) {
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(s.Project.Name) + " (" + s.Project.ID + ")")
	writeLn("")
	if s.Project.Archived {
		writeLn("_Archived_")
		writeLn("")
	}
	if d := strings.TrimSpace(s.Project.Description); d != "" {
		writeLn("## Description")
		writeLn("")
		writeLn(d)
		writeLn("")
	}

	writeLn("## Tasks")
	writeLn("")
	if len(s.Tasks) == 0 {
		writeLn("(none)")
	} else {
		writeLn("| Status | Task | ID |")
		writeLn("|---|---|---|")
		for _, t := range s.Tasks {
			title := strings.ReplaceAll(strings.TrimSpace(t.Title), "|", `\|`)
			writeLn("| " + t.Status.Label() + " | [" + title + "](tasks/" + t.ID + ".md) | " + t.ID + " |")
		}
	}

	if len(s.Briefings) > 0 {
		writeLn("")
		writeLn("## Briefings")
		writeLn("")
		for _, b := range s.Briefings {
			writeLn("### " + strings.TrimSpace(b.Title))
			writeLn("")
			writeLn("- Author: " + b.AuthorID)
			writeLn("- Created: " + stamp(b.CreatedAt))
			writeLn("")
			writeLn(orEmpty(b.Content))
			writeLn("")
		}
	}

	if general := s.commentsFor(""); len(general) > 0 {
		writeLn("")
		writeLn("## Project comments")
		writeLn("")
		writeComments(writeLn, general)
	}
	return buf.String()
}

func writeComments(writeLn func(string), comments []model.Comment) {
	for _, c := range comments {
		writeLn("### " + c.ID + " (" + stamp(c.CreatedAt) + ")")
		writeLn("")
		writeLn("- Author: " + c.AuthorID)
		if c.UpdatedAt.After(c.CreatedAt) {
			writeLn("- Edited: " + stamp(c.UpdatedAt))
		}
		writeLn("")
		writeLn(orEmpty(c.Content))
		writeLn("")
	}
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func orEmpty(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "(empty)"
	}
	return s
}
