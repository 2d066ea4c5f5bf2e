package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"logs-dashboard/internal/dto"
	"logs-dashboard/internal/model"
	"logs-dashboard/internal/repository"
)

type HealthController struct {
	checker repository.HealthChecker
}

func NewHealthController(checker repository.HealthChecker) *HealthController {
	return &HealthController{checker: checker}
}

func RegisterHealthRoutes(router *gin.Engine, controller *HealthController) {
	router.GET("/health", controller.GetHealth)
}

// GetHealth godoc
// @Summary      Health check
// @Description  Probes the log source backing the dashboard.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  model.Response "Log source unreachable"
// @Router       /health [get]
func (c *HealthController) GetHealth(ctx *gin.Context) {
	health, err := c.checker.Health(ctx.Request.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Log source health check failed")
		ctx.JSON(http.StatusServiceUnavailable, model.NewResponse("Log source unreachable", err.Error()))
		return
	}
	if health == nil {
		health = &dto.HealthResponse{}
	}
	ctx.JSON(http.StatusOK, health)
}
