package dto

type TaskStatus int

const (
	TaskPending    TaskStatus = 1
	TaskInProgress TaskStatus = 2
	TaskCompleted  TaskStatus = 3
)

func (s TaskStatus) Valid() bool {
	return s >= TaskPending && s <= TaskCompleted
}

func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "Pendiente"
	case TaskInProgress:
		return "En Progreso"
	case TaskCompleted:
		return "Completado"
	default:
		return "Desconocido"
	}
}

// CreateTaskRequest mirrors the task service payload. Deadline is a
// YYYY-MM-DD date.
type CreateTaskRequest struct {
	Name     string     `json:"name_task"`
	Desc     string     `json:"desc_task"`
	Deadline string     `json:"deadline"`
	Status   TaskStatus `json:"status"`
	IsActive bool       `json:"isActive"`
}

type CreateTaskResponse struct {
	Message string `json:"message"`
	TaskID  int64  `json:"task_id,omitempty"`
}
