package perm

import (
	"testing"

	"planboard/internal/model"
)

func TestCanEditComment_AuthorOnly(t *testing.T) {
	c := model.Comment{ID: "cmt-a", ProjectID: "proj-a", AuthorID: "usr-author"}

	if !CanEditComment("usr-author", c) {
		t.Fatalf("expected author to edit")
	}
	if CanEditComment("usr-other", c) {
		t.Fatalf("expected other user to be blocked")
	}
	if CanEditComment("  ", c) {
		t.Fatalf("expected empty actor to be blocked")
	}
}

func TestCanDeleteComment_ProjectCreatorCanModerate(t *testing.T) {
	c := model.Comment{ID: "cmt-a", ProjectID: "proj-a", AuthorID: "usr-author"}
	p := model.Project{ID: "proj-a", CreatedBy: "usr-owner"}

	if !CanDeleteComment("usr-author", c, p) {
		t.Fatalf("expected author to delete")
	}
	if !CanDeleteComment("usr-owner", c, p) {
		t.Fatalf("expected project creator to delete")
	}
	if CanDeleteComment("usr-other", c, p) {
		t.Fatalf("expected other user to be blocked")
	}

	// Project mismatch never grants moderation rights.
	other := model.Project{ID: "proj-b", CreatedBy: "usr-owner"}
	if CanDeleteComment("usr-owner", c, other) {
		t.Fatalf("expected creator of a different project to be blocked")
	}
}
