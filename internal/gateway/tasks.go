package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"logs-dashboard/internal/dto"
)

const deadlineLayout = "2006-01-02"

// ValidateTask checks a task the way the creation form does and returns the
// first invalid field. Text fields are trimmed in place.
func ValidateTask(req *dto.CreateTaskRequest, now time.Time) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Desc = strings.TrimSpace(req.Desc)

	switch {
	case req.Name == "":
		return &ValidationError{Field: "name_task", Message: "task name is required"}
	case utf8.RuneCountInString(req.Name) < 3:
		return &ValidationError{Field: "name_task", Message: "task name must be at least 3 characters"}
	case req.Desc == "":
		return &ValidationError{Field: "desc_task", Message: "description is required"}
	case utf8.RuneCountInString(req.Desc) < 10:
		return &ValidationError{Field: "desc_task", Message: "description must be at least 10 characters"}
	case req.Deadline == "":
		return &ValidationError{Field: "deadline", Message: "deadline is required"}
	case req.Status == 0:
		return &ValidationError{Field: "status", Message: "status is required"}
	case !req.Status.Valid():
		return &ValidationError{Field: "status", Message: "status must be 1, 2 or 3"}
	}

	deadline, err := time.ParseInLocation(deadlineLayout, req.Deadline, now.Location())
	if err != nil {
		return &ValidationError{Field: "deadline", Message: "deadline must be a YYYY-MM-DD date"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if deadline.Before(today) {
		return &ValidationError{Field: "deadline", Message: "deadline cannot be in the past"}
	}
	return nil
}

// CreateTask validates req and posts it to the task API. A stored
// credential is required.
func (c *Client) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.CreateTaskResponse, error) {
	if err := ValidateTask(&req, time.Now()); err != nil {
		return nil, err
	}
	if c.token() == "" {
		return nil, ErrNotSignedIn
	}
	var resp dto.CreateTaskResponse
	if err := c.do(ctx, http.MethodPost, c.taskBaseURL, "/tasks", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTasks returns the task service's records untouched.
func (c *Client) ListTasks(ctx context.Context) ([]json.RawMessage, error) {
	var tasks []json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.taskBaseURL, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []json.RawMessage{}
	}
	return tasks, nil
}
