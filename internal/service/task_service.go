package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"logs-dashboard/internal/dto"
)

// TaskGateway is the task API surface exposed by the gateway client.
type TaskGateway interface {
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.CreateTaskResponse, error)
	ListTasks(ctx context.Context) ([]json.RawMessage, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.CreateTaskResponse, error)
	ListTasks(ctx context.Context) ([]json.RawMessage, error)
}

type taskService struct {
	tasks TaskGateway
}

func NewTaskService(tasks TaskGateway) TaskService {
	return &taskService{tasks: tasks}
}

func (s *taskService) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.CreateTaskResponse, error) {
	resp, err := s.tasks.CreateTask(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("task", req.Name).Msg("Task creation failed")
		return nil, err
	}
	log.Info().Int64("task_id", resp.TaskID).Str("status", req.Status.String()).Msg("Task created")
	return resp, nil
}

func (s *taskService) ListTasks(ctx context.Context) ([]json.RawMessage, error) {
	return s.tasks.ListTasks(ctx)
}
