package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"logs-dashboard/internal/chart"
	"logs-dashboard/internal/dto"
	"logs-dashboard/internal/model"
	"logs-dashboard/internal/service"
)

// ExportLinker points at the full log export of the gateway.
type ExportLinker interface {
	DownloadURL() string
}

type DashboardController struct {
	dashboardService service.DashboardService
	surfaces         chart.ImageSurfaces
	exports          ExportLinker
}

func NewDashboardController(dashboardService service.DashboardService, surfaces chart.ImageSurfaces, exports ExportLinker) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		surfaces:         surfaces,
		exports:          exports,
	}
}

func RegisterDashboardRoutes(router *gin.Engine, controller *DashboardController) {
	v1 := router.Group("/api/v1/dashboard")
	{
		v1.GET("", controller.GetDashboard)
		v1.GET("/summary", controller.GetSummary)
		v1.GET("/logs", controller.GetRecentLogs)
		v1.GET("/charts", controller.GetCharts)
		v1.GET("/charts/:facet", controller.GetChartImage)
		v1.POST("/refresh", controller.Refresh)
		v1.PUT("/auto-refresh", controller.SetAutoRefresh)
		v1.GET("/download", controller.Download)
	}
}

// GetDashboard godoc
// @Summary      Get dashboard state
// @Description  Returns the latest snapshot, KPIs, recent logs, chart specs and loading/error flags.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardStateResponse
// @Router       /api/v1/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, toStateResponse(c.dashboardService.State()))
}

// GetSummary godoc
// @Summary      Get KPI summary
// @Description  Total calls, unique users, overall average response time, service extremes and rates.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  aggregator.Summary
// @Failure      503  {object}  model.Response "Stats unavailable"
// @Router       /api/v1/dashboard/summary [get]
func (c *DashboardController) GetSummary(ctx *gin.Context) {
	st := c.dashboardService.State()
	if st.Summary == nil {
		ctx.JSON(http.StatusServiceUnavailable, model.NewResponse("Stats are not available", errorText(st.StatsErr)))
		return
	}
	ctx.JSON(http.StatusOK, st.Summary)
}

// GetRecentLogs godoc
// @Summary      Get recent logs
// @Description  The most recent log records of the last load cycle with a status badge per row.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.RecentLogsResponse
// @Router       /api/v1/dashboard/logs [get]
func (c *DashboardController) GetRecentLogs(ctx *gin.Context) {
	st := c.dashboardService.State()
	ctx.JSON(http.StatusOK, dto.RecentLogsResponse{
		Logs:  recentLogViews(st.RecentLogs),
		Total: st.TotalLogs,
	})
}

// GetCharts godoc
// @Summary      List chart facets
// @Description  Lifecycle state and spec of every chart facet, in dashboard order.
// @Tags         charts
// @Produce      json
// @Success      200  {array}   chart.View
// @Router       /api/v1/dashboard/charts [get]
func (c *DashboardController) GetCharts(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.dashboardService.State().Charts)
}

// GetChartImage godoc
// @Summary      Get chart image
// @Description  The drawn image of one facet. 404 when the facet has no chart.
// @Tags         charts
// @Produce      png
// @Produce      image/svg+xml
// @Param        facet  path  string  true  "Chart facet" Enums(status_codes, services, response_times, hourly_traffic, top_endpoints, success_error)
// @Success      200
// @Failure      400  {object}  model.Response "Unknown facet"
// @Failure      404  {object}  model.Response "Nothing drawn"
// @Router       /api/v1/dashboard/charts/{facet} [get]
func (c *DashboardController) GetChartImage(ctx *gin.Context) {
	facet, ok := chart.ParseFacet(ctx.Param("facet"))
	if !ok {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Unknown chart facet", nil))
		return
	}
	surface, ok := c.surfaces[facet]
	if !ok {
		ctx.JSON(http.StatusNotFound, model.NewResponse("Chart images are disabled", nil))
		return
	}
	img, contentType, ok := surface.Image()
	if !ok {
		ctx.JSON(http.StatusNotFound, model.NewResponse("No chart drawn for this facet", nil))
		return
	}
	ctx.Header("Cache-Control", "no-store")
	ctx.Data(http.StatusOK, contentType, img)
}

// Refresh godoc
// @Summary      Refresh the dashboard
// @Description  Runs one load cycle now. 409 when a cycle is already running.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardStateResponse
// @Failure      409  {object}  model.Response "Cycle already in flight"
// @Failure      502  {object}  model.Response "Gateway unreachable"
// @Failure      503  {object}  model.Response "Dashboard torn down"
// @Router       /api/v1/dashboard/refresh [post]
func (c *DashboardController) Refresh(ctx *gin.Context) {
	err := c.dashboardService.Refresh(ctx.Request.Context())
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, toStateResponse(c.dashboardService.State()))
	case errors.Is(err, service.ErrCycleInFlight):
		ctx.JSON(http.StatusConflict, model.NewResponse("A refresh is already in progress", nil))
	case errors.Is(err, service.ErrGatewayUnavailable):
		ctx.JSON(http.StatusBadGateway, model.NewResponse(service.ErrGatewayUnavailable.Error(), nil))
	case errors.Is(err, service.ErrClosed):
		ctx.JSON(http.StatusServiceUnavailable, model.NewResponse("Dashboard is shutting down", nil))
	default:
		log.Error().Err(err).Msg("Error refreshing dashboard")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to refresh dashboard", nil))
	}
}

// SetAutoRefresh godoc
// @Summary      Configure auto-refresh
// @Description  Schedules a load cycle every interval_seconds. 0 disables auto-refresh.
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Param        request  body      dto.AutoRefreshRequest  true  "Refresh interval"
// @Success      200      {object}  dto.AutoRefreshResponse
// @Failure      400      {object}  model.Response "Invalid interval"
// @Router       /api/v1/dashboard/auto-refresh [put]
func (c *DashboardController) SetAutoRefresh(ctx *gin.Context) {
	var req dto.AutoRefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body", err.Error()))
		return
	}
	interval := time.Duration(req.IntervalSeconds) * time.Second
	if err := c.dashboardService.SetAutoRefresh(interval); err != nil {
		if errors.Is(err, service.ErrClosed) {
			ctx.JSON(http.StatusServiceUnavailable, model.NewResponse("Dashboard is shutting down", nil))
			return
		}
		log.Error().Err(err).Int("interval_seconds", req.IntervalSeconds).Msg("Error scheduling auto-refresh")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to schedule auto-refresh", nil))
		return
	}
	applied := c.dashboardService.State().AutoRefresh
	ctx.JSON(http.StatusOK, dto.AutoRefreshResponse{
		IntervalSeconds: int(applied / time.Second),
		Enabled:         applied > 0,
	})
}

// Download godoc
// @Summary      Download the full log export
// @Description  Redirects to the gateway's plain text log export.
// @Tags         dashboard
// @Success      302
// @Router       /api/v1/dashboard/download [get]
func (c *DashboardController) Download(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, c.exports.DownloadURL())
}

func toStateResponse(st service.DashboardState) dto.DashboardStateResponse {
	resp := dto.DashboardStateResponse{
		Loading:            st.Loading,
		Error:              errorText(st.Err),
		StatsError:         errorText(st.StatsErr),
		LogsError:          errorText(st.LogsErr),
		Summary:            st.Summary,
		Snapshot:           st.Snapshot,
		RecentLogs:         recentLogViews(st.RecentLogs),
		TotalLogs:          st.TotalLogs,
		Charts:             st.Charts,
		AutoRefreshSeconds: int(st.AutoRefresh / time.Second),
		LastCycleID:        st.LastCycleID,
	}
	if !st.LastCycleAt.IsZero() {
		at := st.LastCycleAt
		resp.LastCycleAt = &at
	}
	return resp
}

func recentLogViews(records []model.LogRecord) []dto.RecentLogView {
	views := make([]dto.RecentLogView, 0, len(records))
	for _, r := range records {
		views = append(views, dto.RecentLogView{LogRecord: r, StatusBadge: chart.StatusBadge(r.StatusCode)})
	}
	return views
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
