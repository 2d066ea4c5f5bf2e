package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logs-dashboard/internal/dto"
	"logs-dashboard/internal/model"
	"logs-dashboard/internal/service"
)

type TaskController struct {
	taskService service.TaskService
}

func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{taskService: taskService}
}

func RegisterTaskRoutes(router *gin.Engine, controller *TaskController) {
	v1 := router.Group("/api/v1/tasks")
	{
		v1.GET("", controller.ListTasks)
		v1.POST("", controller.CreateTask)
	}
}

// CreateTask godoc
// @Summary      Create a task
// @Description  Validates the task form and forwards it to the task API with the stored token.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CreateTaskRequest  true  "Task"
// @Success      201      {object}  dto.CreateTaskResponse
// @Failure      400      {object}  model.Response "Invalid field"
// @Failure      401      {object}  model.Response "Not signed in"
// @Router       /api/v1/tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	var req dto.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body", err.Error()))
		return
	}
	resp, err := c.taskService.CreateTask(ctx.Request.Context(), req)
	if err != nil {
		respondGatewayError(ctx, err, "Failed to create task")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListTasks godoc
// @Summary      List tasks
// @Description  Returns the task API's records untouched.
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   object
// @Router       /api/v1/tasks [get]
func (c *TaskController) ListTasks(ctx *gin.Context) {
	tasks, err := c.taskService.ListTasks(ctx.Request.Context())
	if err != nil {
		respondGatewayError(ctx, err, "Failed to list tasks")
		return
	}
	ctx.JSON(http.StatusOK, tasks)
}
