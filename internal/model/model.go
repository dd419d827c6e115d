package model

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type Project struct {
	ID          string    `json:"id"`
	ClientID    *string   `json:"clientId,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	Archived    bool      `json:"archived"`
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Next returns the status a toggle moves to: pending -> in_progress -> completed -> pending.
// Unknown values restart the cycle.
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskPending:
		return TaskInProgress
	case TaskInProgress:
		return TaskCompleted
	default:
		return TaskPending
	}
}

func (s TaskStatus) Label() string {
	switch s {
	case TaskPending:
		return "Pending"
	case TaskInProgress:
		return "In progress"
	case TaskCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// ParseTaskStatus accepts the stored ids plus the spellings people type on the command line.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "todo":
		return TaskPending, nil
	case "in_progress", "in-progress", "inprogress", "doing":
		return TaskInProgress, nil
	case "completed", "done":
		return TaskCompleted, nil
	default:
		return "", fmt.Errorf("invalid status: %q", s)
	}
}

type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedBy   string     `json:"createdBy"`
	UpdatedBy   string     `json:"updatedBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskChanges is a partial update. Nil fields are left untouched.
type TaskChanges struct {
	Title            *string     `json:"title,omitempty"`
	Description      *string     `json:"description,omitempty"`
	ClearDescription bool        `json:"clearDescription,omitempty"`
	Status           *TaskStatus `json:"status,omitempty"`
}

func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && !c.ClearDescription && c.Status == nil
}

type Comment struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	TaskID    *string   `json:"taskId,omitempty"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CommentChanges struct {
	Content *string `json:"content,omitempty"`
}

type Briefing struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Inputs for record creation. IDs, attribution and timestamps are assigned by the store.

type NewProject struct {
	ClientID    *string `json:"clientId,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
}

type NewTask struct {
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
}

type NewComment struct {
	ProjectID string  `json:"projectId"`
	TaskID    *string `json:"taskId,omitempty"`
	Content   string  `json:"content"`
}

type NewBriefing struct {
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}
