package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller/respond"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

const refreshCookie = "refresh_token"

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new student account
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body dto.RegisterDTO true "Account data"
// @Success 201 {object} dto.ProfileDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (ctl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Register: failed to bind request")
		respond.BindError(c, err)
		return
	}

	profile, err := ctl.authService.Register(req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// Login godoc
// @Summary Log in with email and password
// @Description Returns an access token; the refresh token is set as an HTTP-only cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginDTO true "Credentials"
// @Success 200 {object} dto.TokenResponseDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (ctl *AuthController) Login(c *gin.Context) {
	var req dto.LoginDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	pair, profile, err := ctl.authService.Login(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, err)
		return
	}

	ctl.setRefreshCookie(c, pair)
	c.JSON(http.StatusOK, dto.TokenResponseDTO{AccessToken: pair.AccessToken, User: *profile})
}

// Refresh godoc
// @Summary Rotate the refresh token and get a new access token
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.TokenResponseDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (ctl *AuthController) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing refresh token"})
		return
	}

	pair, err := ctl.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		ctl.clearRefreshCookie(c)
		respond.Error(c, err)
		return
	}

	ctl.setRefreshCookie(c, pair)
	c.JSON(http.StatusOK, dto.TokenResponseDTO{AccessToken: pair.AccessToken})
}

// Logout godoc
// @Summary Revoke the refresh token and clear its cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (ctl *AuthController) Logout(c *gin.Context) {
	if token, err := c.Cookie(refreshCookie); err == nil {
		if err := ctl.authService.Logout(c.Request.Context(), token); err != nil {
			log.Warn().Err(err).Msg("Logout: failed to revoke refresh token")
		}
	}
	ctl.clearRefreshCookie(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// Profile godoc
// @Summary Get the authenticated user's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/profile [get]
func (ctl *AuthController) Profile(c *gin.Context) {
	profile, err := ctl.authService.GetProfile(middleware.CurrentUser(c).ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update name or password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body dto.ProfileUpdateDTO true "Fields to update"
// @Success 200 {object} dto.ProfileDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/profile [put]
func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	var req dto.ProfileUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	profile, err := ctl.authService.UpdateProfile(middleware.CurrentUser(c).ID, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (ctl *AuthController) setRefreshCookie(c *gin.Context, pair *service.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, pair.RefreshToken, int(pair.RefreshTTL.Seconds()), "/api/v1/auth", "", false, true)
}

func (ctl *AuthController) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(refreshCookie, "", -1, "/api/v1/auth", "", false, true)
}
