package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logs-dashboard/internal/dto"
	"logs-dashboard/internal/gateway"
)

func validTask() dto.CreateTaskRequest {
	return dto.CreateTaskRequest{
		Name:     "Write report",
		Desc:     "Quarterly usage report",
		Deadline: "2024-05-10",
		Status:   dto.TaskPending,
		IsActive: true,
	}
}

func TestValidateTask(t *testing.T) {
	now := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*dto.CreateTaskRequest)
		field  string
	}{
		{name: "Valid", mutate: func(*dto.CreateTaskRequest) {}},
		{name: "Deadline Today", mutate: func(r *dto.CreateTaskRequest) { r.Deadline = "2024-05-01" }},
		{name: "Missing Name", mutate: func(r *dto.CreateTaskRequest) { r.Name = "   " }, field: "name_task"},
		{name: "Short Name", mutate: func(r *dto.CreateTaskRequest) { r.Name = " ab " }, field: "name_task"},
		{name: "Short Description", mutate: func(r *dto.CreateTaskRequest) { r.Desc = "too short" }, field: "desc_task"},
		{name: "Missing Deadline", mutate: func(r *dto.CreateTaskRequest) { r.Deadline = "" }, field: "deadline"},
		{name: "Past Deadline", mutate: func(r *dto.CreateTaskRequest) { r.Deadline = "2024-04-30" }, field: "deadline"},
		{name: "Bad Deadline", mutate: func(r *dto.CreateTaskRequest) { r.Deadline = "10/05/2024" }, field: "deadline"},
		{name: "Missing Status", mutate: func(r *dto.CreateTaskRequest) { r.Status = 0 }, field: "status"},
		{name: "Unknown Status", mutate: func(r *dto.CreateTaskRequest) { r.Status = 4 }, field: "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validTask()
			tt.mutate(&req)
			err := gateway.ValidateTask(&req, now)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *gateway.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestCreateTaskUsesTaskBaseURL(t *testing.T) {
	var got dto.CreateTaskRequest
	var gotAuth string
	taskAPI := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tasks", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message": "Task created", "task_id": 9}`))
	}, nil)

	cli, err := gateway.New("http://gateway.invalid", &memoryTokens{token: "tok"}, gateway.WithTaskBaseURL(taskAPI.BaseURL()))
	require.NoError(t, err)

	req := validTask()
	req.Name = "  Write report  "
	req.Deadline = time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	resp, err := cli.CreateTask(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.TaskID)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "Write report", got.Name)
	assert.True(t, got.IsActive)
}

func TestCreateTaskRequiresCredential(t *testing.T) {
	cli := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, &memoryTokens{})

	req := validTask()
	req.Deadline = time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	_, err := cli.CreateTask(context.Background(), req)
	assert.ErrorIs(t, err, gateway.ErrNotSignedIn)
}

func TestListTasks(t *testing.T) {
	cli := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1, "name": "a"}, {"id": 2, "name": "b"}]`))
	}, nil)

	tasks, err := cli.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}
