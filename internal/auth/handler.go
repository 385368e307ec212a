// File: internal/auth/handler.go
package auth

import (
	"errors"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler handles authentication related HTTP requests.
type Handler struct {
	userService  shared.Service
	tokenService shared.TokenService
	logger       *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(userService shared.Service, tokenService shared.TokenService, logger *zap.Logger) *Handler {
	return &Handler{
		userService:  userService,
		tokenService: tokenService,
		logger:       logger.Named("auth_handler"),
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", h.login)
		authRoutes.POST("/refresh-token", h.refreshToken)
	}
}

type loginResponse struct {
	User  *shared.User          `json:"user"`
	Token *shared.TokenResponse `json:"token"`
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var valErrs validator.ValidationErrors
		if errors.As(err, &valErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(valErrs)))
		} else {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		}
		return
	}

	user, token, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	h.logger.Info("User logged in", zap.String("userID", user.ID.String()))
	common.RespondOK(c, "Login successful.", loginResponse{User: user, Token: token})
}

func (h *Handler) refreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var valErrs validator.ValidationErrors
		if errors.As(err, &valErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(valErrs)))
		} else {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		}
		return
	}

	claims, err := h.tokenService.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired refresh token."))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User for this token no longer exists."))
		return
	}

	accessToken, accessExpiry, err := h.tokenService.GenerateAccessToken(user)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	refreshToken, _, err := h.tokenService.GenerateRefreshToken(user)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Token refreshed.", shared.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiry,
		TokenType:    "Bearer",
	})
}
