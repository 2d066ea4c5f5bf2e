package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"logs-dashboard/internal/dto"
	"logs-dashboard/internal/model"
	"logs-dashboard/internal/service"
)

type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(sessionService service.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

func RegisterSessionRoutes(router *gin.Engine, controller *SessionController) {
	v1 := router.Group("/api/v1/session")
	{
		v1.GET("", controller.GetSession)
		v1.POST("/login", controller.Login)
		v1.POST("/register", controller.Register)
		v1.POST("/logout", controller.Logout)
		v1.POST("/validate", controller.Validate)
	}
}

// GetSession godoc
// @Summary      Get session
// @Description  Whether a credential is stored and whether its token has expired.
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/v1/session [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.sessionService.Session())
}

// Login godoc
// @Summary      Sign in
// @Description  Exchanges username, password and one-time code for a gateway token and stores it.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request  body      dto.LoginRequest  true  "Credentials"
// @Success      200      {object}  dto.LoginResponse
// @Failure      400      {object}  model.Response "Invalid request body"
// @Failure      401      {object}  model.Response "Rejected credentials"
// @Router       /api/v1/session/login [post]
func (c *SessionController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body", err.Error()))
		return
	}
	resp, err := c.sessionService.Login(ctx.Request.Context(), req)
	if err != nil {
		respondGatewayError(ctx, err, "Failed to sign in")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary      Register an account
// @Description  Creates a gateway account. The answer carries the OTP enrollment URL.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RegisterRequest  true  "Account"
// @Success      201      {object}  dto.RegisterResponse
// @Failure      400      {object}  model.Response "Invalid request body"
// @Router       /api/v1/session/register [post]
func (c *SessionController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body", err.Error()))
		return
	}
	resp, err := c.sessionService.Register(ctx.Request.Context(), req)
	if err != nil {
		respondGatewayError(ctx, err, "Failed to register")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Logout godoc
// @Summary      Sign out
// @Description  Revokes the stored token at the gateway and forgets it.
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.Response
// @Router       /api/v1/session/logout [post]
func (c *SessionController) Logout(ctx *gin.Context) {
	if err := c.sessionService.Logout(ctx.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Error signing out")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to sign out", nil))
		return
	}
	ctx.JSON(http.StatusOK, model.NewResponse("Signed out", nil))
}

// Validate godoc
// @Summary      Validate the stored token
// @Description  Asks the gateway whether the stored token is still accepted. A rejected token is dropped.
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      502  {object}  model.Response "Gateway unreachable"
// @Router       /api/v1/session/validate [post]
func (c *SessionController) Validate(ctx *gin.Context) {
	sess, err := c.sessionService.Validate(ctx.Request.Context())
	if err != nil {
		respondGatewayError(ctx, err, "Failed to validate session")
		return
	}
	ctx.JSON(http.StatusOK, sess)
}
