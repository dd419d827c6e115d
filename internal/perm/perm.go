package perm

import (
	"strings"

	"planboard/internal/model"
)

// CanEditComment enforces authorship: only the author may change a comment's content.
func CanEditComment(actorID string, c model.Comment) bool {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return false
	}
	return strings.TrimSpace(c.AuthorID) == actorID
}

// CanDeleteComment allows the author, and the creator of the comment's project for moderation.
func CanDeleteComment(actorID string, c model.Comment, p model.Project) bool {
	if CanEditComment(actorID, c) {
		return true
	}
	actorID = strings.TrimSpace(actorID)
	if actorID == "" || p.ID != c.ProjectID {
		return false
	}
	return strings.TrimSpace(p.CreatedBy) == actorID
}
